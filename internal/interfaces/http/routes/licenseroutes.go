package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/handlers"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/middleware"
)

// LicenseRouteConfig holds dependencies for license routes.
type LicenseRouteConfig struct {
	LicenseHandler       *handlers.LicenseHandler
	PoolHandler          *handlers.PoolHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimiter          *middleware.RateLimiter
}

// SetupLicenseRoutes configures license assignment and pool routes.
func SetupLicenseRoutes(engine *gin.Engine, cfg *LicenseRouteConfig) {
	licenses := engine.Group("/licenses")
	licenses.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Seat mutations
		write := licenses.Group("")
		write.Use(cfg.PermissionMiddleware.RequirePermission("licenses", "write"))
		{
			write.POST("/grant", cfg.RateLimiter.Limit(), cfg.LicenseHandler.GrantLicense)
			write.POST("/revoke", cfg.LicenseHandler.RevokeLicense)
			write.POST("/change-type", cfg.LicenseHandler.ChangeLicenseType)
			write.POST("/grant-bulk", cfg.RateLimiter.Limit(), cfg.LicenseHandler.GrantLicensesBulk)
			write.POST("/revoke-bulk", cfg.LicenseHandler.RevokeLicensesBulk)
		}

		// Lookups
		read := licenses.Group("")
		read.Use(cfg.PermissionMiddleware.RequirePermission("licenses", "read"))
		{
			read.GET("/check", cfg.LicenseHandler.CheckLicense)
			read.GET("/feature", cfg.LicenseHandler.CheckFeature)
			read.GET("/tenants/:tenant_id/users/:user_id", cfg.LicenseHandler.GetUserLicenses)
			read.GET("/tenants/:tenant_id/applications/:application_id/holders", cfg.LicenseHandler.GetAppLicenseHolders)
			read.GET("/tenants/:tenant_id/members", cfg.LicenseHandler.GetTenantMembersWithLicenses)
			read.GET("/tenants/:tenant_id/audit-log", cfg.PoolHandler.GetAuditLog)
		}

		// Pool / inventory
		poolRead := licenses.Group("")
		poolRead.Use(cfg.PermissionMiddleware.RequirePermission("pool", "read"))
		{
			poolRead.GET("/tenants/:tenant_id/usage-overview", cfg.PoolHandler.GetUsageOverview)
			poolRead.GET("/tenants/:tenant_id/applications/:application_id/member-access", cfg.PoolHandler.CheckMemberAccess)
			poolRead.GET("/subscriptions/:subscription_id/assignments", cfg.PoolHandler.GetSubscriptionAssignments)
		}

		poolWrite := licenses.Group("")
		poolWrite.Use(cfg.PermissionMiddleware.RequirePermission("pool", "write"))
		{
			poolWrite.POST("/subscriptions", cfg.PoolHandler.ProvisionSubscription)
			poolWrite.PATCH("/subscriptions/:subscription_id/quantity", cfg.PoolHandler.UpdateQuantity)
			poolWrite.POST("/subscriptions/:subscription_id/cancel", cfg.PoolHandler.CancelSubscription)
			poolWrite.POST("/subscriptions/:subscription_id/renew", cfg.PoolHandler.RenewSubscription)
			poolWrite.POST("/subscriptions/:subscription_id/expire", cfg.PoolHandler.ExpireSubscription)
			poolWrite.POST("/subscriptions/:subscription_id/reconcile", cfg.PoolHandler.ReconcileAssignedCount)
		}
	}
}
