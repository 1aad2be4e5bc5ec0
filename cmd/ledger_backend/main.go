package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/credit_ledger/internal/adapters/lock"
	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/credit_ledger/internal/core/services"
	"github.com/SscSPs/credit_ledger/internal/handlers"
	"github.com/SscSPs/credit_ledger/internal/middleware"
	"github.com/SscSPs/credit_ledger/internal/platform/config"
	"github.com/SscSPs/credit_ledger/internal/platform/metrics"
	"github.com/SscSPs/credit_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/credit_ledger/internal/repositories/memory"
	"github.com/SscSPs/credit_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// @title Credit Ledger API
// @version 1.0
// @description Card-network webhooks and the operator API for the credit card ledger.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey WebhookSignature
// @in header
// @name X-Webhook-Signature
// @description Hex HMAC-SHA256 of the raw request body, keyed with the webhook secret.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locker, closeLocker := newJobLocker(ctx, cfg, logger)
	defer closeLocker()

	var repos portsrepo.RepositoryProvider
	switch cfg.StoreDriver {
	case config.StoreMemory:
		repos = portsrepo.RepositoryProvider{Ledger: memory.NewStore(), JobLocker: locker}
		logger.Info("Using in-memory ledger store")
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			CheckConnection: cfg.EnableDBCheck,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool, locker)
	}

	appMetrics := metrics.New()
	serviceContainer := services.NewServiceContainer(cfg, repos, appMetrics)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, appMetrics); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go runBillingScheduler(ctx, serviceContainer.Statement, cfg.BillingRunInterval, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// newJobLocker returns a Redis-backed locker when REDIS_ADDR is set so that
// several replicas share one billing run, and a process-local one otherwise.
func newJobLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.JobLocker, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, billing-run lock is process local")
		return lock.NewLocalLocker(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis connection failed, continuing with a process-local lock", slog.String("error", err.Error()))
		_ = client.Close()
		return lock.NewLocalLocker(), func() {}
	}
	logger.Info("Redis connection established", slog.String("addr", cfg.RedisAddr))
	return lock.NewRedisLocker(client), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", slog.String("error", err.Error()))
		}
	}
}
