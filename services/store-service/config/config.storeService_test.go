package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_MODE", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.LedgerMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.LedgerRetryBackoff)
	assert.Equal(t, "restock_jobs", cfg.RestockQueue)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_MODE", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "mobile_store")
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("LEDGER_MAX_ATTEMPTS", "5")
	t.Setenv("LEDGER_RETRY_BACKOFF", "250ms")
	t.Setenv("CORS_ORIGINS", "https://shop.example,https://admin.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 5, cfg.LedgerMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.LedgerRetryBackoff)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"postgres without host": {"STORAGE_MODE": "postgres", "DB_HOST": "", "DB_NAME": ""},
		"unknown storage":       {"STORAGE_MODE": "redis"},
		"bad attempts":          {"STORAGE_MODE": "memory", "LEDGER_MAX_ATTEMPTS": "zero"},
		"no attempts":           {"STORAGE_MODE": "memory", "LEDGER_MAX_ATTEMPTS": "0"},
		"bad backoff":           {"STORAGE_MODE": "memory", "LEDGER_RETRY_BACKOFF": "soon"},
		"bad driver":            {"STORAGE_MODE": "memory", "DB_DRIVER": "mysql"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
