package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/infrastructure/auth"
	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth verifies the bearer token issued by the identity core and
// stashes its claims in the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySub, claims.Sub)
		c.Set(constants.ContextKeyTenantID, claims.TenantID)
		c.Set(constants.ContextKeyUserRole, claims.Role)

		c.Next()
	}
}

// RequireScope additionally demands a scope claim. Used on the
// service-to-service surface where role-based checks do not apply.
func (m *AuthMiddleware) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if !claims.HasScope(scope) {
			m.logger.Warnw("missing required scope", "sub", claims.Sub, "scope", scope)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient scope")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySub, claims.Sub)
		c.Set(constants.ContextKeyTenantID, claims.TenantID)
		c.Set(constants.ContextKeyUserRole, claims.Role)

		c.Next()
	}
}
