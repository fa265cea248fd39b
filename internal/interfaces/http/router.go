package http

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/middleware"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/routes"

	_ "github.com/fed-stew/authvital-sub001/docs"
)

// SetupRoutes configures the global middleware chain and all route groups.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.ErrorHandler())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c.engine.GET("/health", c.hdlrs.health.HealthCheck)

	routes.SetupLicenseRoutes(c.engine, &routes.LicenseRouteConfig{
		LicenseHandler:       c.hdlrs.license,
		PoolHandler:          c.hdlrs.pool,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimiter:          c.rateLimiter,
	})

	routes.SetupAccessRoutes(c.engine, &routes.AccessRouteConfig{
		AccessHandler:        c.hdlrs.access,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupProvisioningRoutes(c.engine, &routes.ProvisioningRouteConfig{
		ProvisioningHandler:  c.hdlrs.provisioning,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
