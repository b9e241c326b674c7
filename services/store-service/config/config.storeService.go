package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/shared/config"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type StoreConfig struct {
	CommonConfig *config.CommonConfig // DB, Kafka and RabbitMQ connection settings

	HTTPAddr    string
	CORSOrigins []string
	LogLevel    string

	StorageMode     string // postgres | memory
	DBDriver        string // postgres (lib/pq) | pgx
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	LedgerMaxAttempts  int
	LedgerRetryBackoff time.Duration

	LowStockThreshold int
	RestockQueue      string
	KafkaGroupID      string
	RabbitPrefetch    int
}

// LoadConfig loads the store service configuration
func LoadConfig() (*StoreConfig, error) {
	common, err := config.LoadCommonConfig()
	if err != nil {
		return nil, err
	}

	cfg := &StoreConfig{
		CommonConfig: common,
		HTTPAddr:     envString("HTTP_ADDR", ":8080"),
		LogLevel:     envString("LOG_LEVEL", "info"),
		StorageMode:  strings.ToLower(envString("STORAGE_MODE", StoragePostgres)),
		DBDriver:     strings.ToLower(envString("DB_DRIVER", "postgres")),
		RestockQueue: envString("RESTOCK_QUEUE", "restock_jobs"),
		KafkaGroupID: envString("KAFKA_GROUP_ID", "store-restock-bridge"),
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"DB_MAX_OPEN_CONNS", 20, &cfg.MaxOpenConns},
		{"DB_MAX_IDLE_CONNS", 5, &cfg.MaxIdleConns},
		{"LEDGER_MAX_ATTEMPTS", 3, &cfg.LedgerMaxAttempts},
		{"LOW_STOCK_THRESHOLD", 3, &cfg.LowStockThreshold},
		{"RABBITMQ_PREFETCH", 10, &cfg.RabbitPrefetch},
	}
	for _, v := range ints {
		n, err := envInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dst = n
	}

	if cfg.ConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LedgerRetryBackoff, err = envDuration("LEDGER_RETRY_BACKOFF", 50*time.Millisecond); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *StoreConfig) validate() error {
	switch c.StorageMode {
	case StorageMemory:
	case StoragePostgres:
		if !c.CommonConfig.HasDatabase() {
			return fmt.Errorf("STORAGE_MODE=postgres needs DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("STORAGE_MODE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageMode)
	}
	if c.DBDriver != "postgres" && c.DBDriver != "pgx" {
		return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.DBDriver)
	}
	if c.LedgerMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_MAX_ATTEMPTS must be at least 1")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer", key, raw)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a duration", key, raw)
	}
	return d, nil
}
