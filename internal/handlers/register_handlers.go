package handlers

import (
	"net/http"

	"github.com/SscSPs/iptv_reseller_app/cmd/docs"
	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/config"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/metrics"
	"github.com/SscSPs/iptv_reseller_app/internal/utils/pagination"
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
	RegisterValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	registerAuthRoutes(r, services.Auth, loginLimiter)

	setupAPIRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIRoutes configures the /api group and delegates to specific entity route registrations
func setupAPIRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	api := r.Group("/api", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterAPIRoutes(api, services, pagination.Limits{Default: cfg.DefaultPageLimit, Max: cfg.MaxPageLimit})
}

// RegisterAPIRoutes registers every business route on rg. Authentication is the caller's concern.
func RegisterAPIRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, limits pagination.Limits) {
	p := pager{limits: limits}
	registerPlatformRoutes(rg, services.Platform, services.Ledger, p)
	registerProductRoutes(rg, services.Product, p)
	registerClientRoutes(rg, services.Client, p)
	registerRechargeRoutes(rg, services.Recharge, p)
	registerSaleRoutes(rg, services.Sale, p)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
