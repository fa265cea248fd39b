package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/handlers"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/middleware"
)

// ProvisioningRouteConfig holds dependencies for tenant provisioning routes.
type ProvisioningRouteConfig struct {
	ProvisioningHandler  *handlers.ProvisioningHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupProvisioningRoutes configures tenant provisioning routes.
// Provisioning is called by the tenant service, so it requires the
// service-to-service scope on top of authentication.
func SetupProvisioningRoutes(engine *gin.Engine, cfg *ProvisioningRouteConfig) {
	provisioning := engine.Group("/provisioning")
	provisioning.Use(cfg.AuthMiddleware.RequireAuth())
	{
		provisioning.POST("/tenants",
			cfg.AuthMiddleware.RequireScope("provisioning:write"),
			cfg.ProvisioningHandler.ProvisionForNewTenant)
		provisioning.GET("/tenants/:tenant_id/member-limit",
			cfg.PermissionMiddleware.RequirePermission("pool", "read"),
			cfg.ProvisioningHandler.CheckMemberLimit)
	}
}
