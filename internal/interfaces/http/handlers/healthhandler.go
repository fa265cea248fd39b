package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and dependency reachability.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	checks := gin.H{}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		checks["database"] = "down"
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "up"
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "license-engine",
		"checks":  checks,
	})
}
