package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/handlers"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/middleware"
)

// AccessRouteConfig holds dependencies for app access routes.
type AccessRouteConfig struct {
	AccessHandler        *handlers.AccessHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAccessRoutes configures application access record routes.
func SetupAccessRoutes(engine *gin.Engine, cfg *AccessRouteConfig) {
	access := engine.Group("/access")
	access.Use(cfg.AuthMiddleware.RequireAuth())
	{
		write := access.Group("")
		write.Use(cfg.PermissionMiddleware.RequirePermission("access", "write"))
		{
			write.POST("/grant", cfg.AccessHandler.GrantAccess)
			write.POST("/revoke", cfg.AccessHandler.RevokeAccess)
			write.POST("/suspend", cfg.AccessHandler.SuspendAccess)
			write.POST("/revoke-all", cfg.AccessHandler.RevokeAllForUser)
		}

		read := access.Group("")
		read.Use(cfg.PermissionMiddleware.RequirePermission("access", "read"))
		{
			read.GET("/check", cfg.AccessHandler.CheckAccess)
			read.POST("/check-bulk", cfg.AccessHandler.CheckAccessBulk)
		}
	}
}
