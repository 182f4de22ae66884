package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"merchandising-service/internal/events"
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	publisher *events.Publisher
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, publisher *events.Publisher) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, publisher: publisher}
}

// Health returns liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "merchandising-service",
	})
}

// Ready returns readiness of the database and optional dependencies
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	ready := true

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		checks["database"] = "down"
		ready = false
	} else {
		checks["database"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
		} else {
			checks["redis"] = "up"
		}
	}

	if h.publisher != nil {
		if h.publisher.IsConnected() {
			checks["nats"] = "up"
		} else {
			checks["nats"] = "down"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "checks": checks})
}
