package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/infrastructure/permission"
	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

type PermissionMiddleware struct {
	enforcer *permission.Enforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer *permission.Enforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission checks the caller's tenant role against the policy for
// a resource/action pair. Must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"sub", c.GetString(constants.ContextKeySub),
				"role", role,
				"resource", resource,
				"action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole shortcuts the policy check for routes restricted to specific
// tenant roles.
func (m *PermissionMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		m.logger.Warnw("role check failed",
			"sub", c.GetString(constants.ContextKeySub),
			"role", role,
			"required_roles", roles)
		utils.ErrorResponse(c, http.StatusForbidden, "insufficient role")
		c.Abort()
	}
}
