// shared/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CommonConfig holds infrastructure details used by every service binary:
// the Postgres database, the Kafka sale-event stream and the RabbitMQ job broker.
type CommonConfig struct {
	//Database (PostgreSQL) config
	DB_USER     string `yaml:"db_user"`
	DB_PASSWORD string `yaml:"db_password"`
	DB_NAME     string `yaml:"db_name"`
	DB_HOST     string `yaml:"db_host"`
	DB_PORT     string `yaml:"db_port"`
	DB_SSLMODE  string `yaml:"db_sslmode"`
	//Kafka config
	KAFKA_TOPIC  string `yaml:"kafka_topic"`
	KAFKA_BROKER string `yaml:"kafka_broker"`
	//RabbitMQ config
	RABBITMQ_USER     string `yaml:"rabbitmq_user"`
	RABBITMQ_PASSWORD string `yaml:"rabbitmq_password"`
	RABBITMQ_HOST     string `yaml:"rabbitmq_host"`
	RABBITMQ_PORT     string `yaml:"rabbitmq_port"`
}

// LoadCommonConfig returns the shared infrastructure config.
// Order of precedence (lowest first): YAML file named by CONFIG_FILE,
// a local .env file, then the real process environment.
func LoadCommonConfig() (*CommonConfig, error) {
	// A missing .env is normal in containers; the variables come from the orchestrator.
	_ = godotenv.Load()

	cfg := &CommonConfig{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	override(&cfg.DB_USER, "DB_USER")
	override(&cfg.DB_PASSWORD, "DB_PASSWORD")
	override(&cfg.DB_HOST, "DB_HOST")
	override(&cfg.DB_PORT, "DB_PORT")
	override(&cfg.DB_NAME, "DB_NAME")
	override(&cfg.DB_SSLMODE, "DB_SSLMODE")

	override(&cfg.KAFKA_TOPIC, "KAFKA_TOPIC")
	override(&cfg.KAFKA_BROKER, "KAFKA_BROKER")

	override(&cfg.RABBITMQ_USER, "RABBITMQ_USER")
	override(&cfg.RABBITMQ_PASSWORD, "RABBITMQ_PASSWORD")
	override(&cfg.RABBITMQ_HOST, "RABBITMQ_HOST")
	override(&cfg.RABBITMQ_PORT, "RABBITMQ_PORT")

	return cfg, nil
}

// LoadYAML decodes a YAML file into out. Service configs reuse it for their own sections.
func LoadYAML(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// GetDBURL formats the config into a PostgreSQL connection string
func (c *CommonConfig) GetDBURL() string {
	host := c.DB_HOST
	if host == "" {
		host = "localhost"
	}
	port := c.DB_PORT
	if port == "" {
		port = "5432"
	}
	sslMode := c.DB_SSLMODE
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DB_USER, c.DB_PASSWORD, host, port, c.DB_NAME, sslMode)
}

// HasDatabase reports whether enough settings exist to try a Postgres connection.
func (c *CommonConfig) HasDatabase() bool {
	return c.DB_HOST != "" && c.DB_NAME != ""
}

// HasKafka reports whether the sale-event stream is configured.
func (c *CommonConfig) HasKafka() bool {
	return c.KAFKA_BROKER != "" && c.KAFKA_TOPIC != ""
}

// HasRabbitMQ reports whether the job broker is configured.
func (c *CommonConfig) HasRabbitMQ() bool {
	return c.RABBITMQ_HOST != ""
}

// GetRabbitMQURL formats the config into a RabbitMQ connection string
func (c *CommonConfig) GetRabbitMQURL() string {
	host := c.RABBITMQ_HOST
	if host == "" {
		host = "localhost"
	}
	port := c.RABBITMQ_PORT
	if port == "" {
		port = "5672"
	}

	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RABBITMQ_USER, c.RABBITMQ_PASSWORD, host, port)
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
