package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// StoreDriver selects the ledger store backend.
type StoreDriver string

const (
	StorePostgres StoreDriver = "postgres"
	StoreMemory   StoreDriver = "memory"
)

const (
	insecureDefaultJWTSecret   = "a-very-secret-key-should-be-longer-and-random"
	insecureDefaultCardHashKey = "dev-card-hash-key"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	DBMaxConns    int32
	StoreDriver   StoreDriver

	// JWTSecret signs operator bearer tokens on /api/v1.
	JWTSecret string

	// WebhookSecret is the HMAC key shared with the card network. Empty disables verification.
	WebhookSecret string

	// RateLimit is a ulule/limiter formatted rate applied to webhooks, e.g. "200-S".
	RateLimit string

	// CardHashKey keys the card number fingerprint. At most 64 bytes.
	CardHashKey string

	// CORSAllowedOrigins enables CORS on the operator API when non-empty.
	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StatementConcurrency int
	BillingRunInterval   time.Duration
	BillingLockTTL       time.Duration

	MigrationsPath string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", 0)
	viper.SetDefault("STORE_DRIVER", string(StorePostgres))
	viper.SetDefault("JWT_SECRET", insecureDefaultJWTSecret)
	viper.SetDefault("WEBHOOK_SECRET", "")
	viper.SetDefault("CARD_HASH_KEY", "")
	viper.SetDefault("RATE_LIMIT", "200-S")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STATEMENT_CONCURRENCY", 4)
	viper.SetDefault("BILLING_RUN_INTERVAL", "24h")
	viper.SetDefault("BILLING_LOCK_TTL", "30m")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:           viper.GetInt32("DB_MAX_CONNS"),
		StoreDriver:          StoreDriver(strings.ToLower(viper.GetString("STORE_DRIVER"))),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		WebhookSecret:        viper.GetString("WEBHOOK_SECRET"),
		CardHashKey:          viper.GetString("CARD_HASH_KEY"),
		RateLimit:            viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:            viper.GetString("REDIS_ADDR"),
		RedisPassword:        viper.GetString("REDIS_PASSWORD"),
		RedisDB:              viper.GetInt("REDIS_DB"),
		StatementConcurrency: viper.GetInt("STATEMENT_CONCURRENCY"),
		MigrationsPath:       viper.GetString("MIGRATIONS_PATH"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StorePostgres)
		}
	case StoreMemory:
		log.Println("Warning: STORE_DRIVER=memory keeps the ledger in process memory only.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureDefaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureDefaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.CardHashKey == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("CARD_HASH_KEY must be set in production")
		}
		cfg.CardHashKey = insecureDefaultCardHashKey
		log.Println("Warning: CARD_HASH_KEY not set. Using default insecure key.")
	}
	if len(cfg.CardHashKey) > 64 {
		return nil, fmt.Errorf("CARD_HASH_KEY must be at most 64 bytes, got %d", len(cfg.CardHashKey))
	}
	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set. Webhook signatures will not be verified.")
	}

	if cfg.StatementConcurrency <= 0 {
		cfg.StatementConcurrency = 4
	}

	var err error
	if cfg.BillingRunInterval, err = parseDuration("BILLING_RUN_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BillingLockTTL, err = parseDuration("BILLING_LOCK_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
