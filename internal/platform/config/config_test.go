package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PGSQL_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.BillingRunInterval)
	assert.Equal(t, 30*time.Minute, cfg.BillingLockTTL)
	assert.Equal(t, 4, cfg.StatementConcurrency)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("STATEMENT_CONCURRENCY", "16")
	t.Setenv("BILLING_RUN_INTERVAL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("DB_MAX_CONNS", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 16, cfg.StatementConcurrency)
	assert.Equal(t, time.Hour, cfg.BillingRunInterval)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("PGSQL_URL", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("BILLING_LOCK_TTL", "soon")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("production needs jwt secret", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("IS_PRODUCTION", "true")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("card hash key too long", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("CARD_HASH_KEY", strings.Repeat("k", 65))
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
