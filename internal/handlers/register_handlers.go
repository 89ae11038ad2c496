package handlers

import (
	"github.com/SscSPs/invoice_management_app/cmd/docs"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/SscSPs/invoice_management_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// loginLimiter may be nil to disable login throttling.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter *limiter.Limiter,
) {
	r.GET("/health", getHealth)

	api := r.Group("/api/v1")
	api.GET("", getHome)

	// Public authentication routes
	registerAuthRoutes(api, services, loginLimiter)

	// Everything else requires a bearer token
	authed := api.Group("", middleware.AuthMiddleware(services.Token, services.User))
	setupAPIV1Routes(authed, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes delegates to specific entity route registrations
func setupAPIV1Routes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerMeRoute(v1)
	registerUserRoutes(v1, services.User)
	registerClientRoutes(v1, services.Client)
	registerProductRoutes(v1, services.Product)
	registerInvoiceRoutes(v1, services.Invoice, services.Numbering)

	admin := v1.Group("", middleware.RequireRole(domain.RoleAdmin))
	registerSettingsRoutes(admin, services.Settings)
	registerAnalyticsRoutes(admin, services.Analytics)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
