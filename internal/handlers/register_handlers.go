package handlers

import (
	"net/http"

	"github.com/SscSPs/credit_ledger/cmd/docs"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/middleware"
	"github.com/SscSPs/credit_ledger/internal/platform/config"
	"github.com/SscSPs/credit_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
) error {
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	if err := setupWebhookRoutes(r, cfg, services); err != nil {
		return err
	}
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupWebhookRoutes configures the card-network callbacks. They are signed
// with the shared webhook secret instead of operator tokens.
func setupWebhookRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	limiterInstance, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	webhooks := r.Group("/webhooks",
		middleware.RateLimit(limiterInstance),
		middleware.WebhookSignature(cfg.WebhookSecret),
	)
	registerWebhookRoutes(webhooks, services.Authorization, services.Settlement)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterAccountRoutes(v1, services.Account, services.Payment, services.Statement)
	RegisterStatementRoutes(v1, services.Account, services.Statement)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	// Webhooks and the operator API have different prefixes, so routes carry full paths.
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
