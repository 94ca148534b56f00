package handler

import (
	"net/http"
	"time"

	"github.com/fibreflow/procurement/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	redis     *redis.Client
	startedAt time.Time
	version   string
}

// NewSystemHandler creates a SystemHandler. redisClient may be nil when
// the deployment runs without Redis.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		redis:     redisClient,
		startedAt: time.Now(),
		version:   version,
	}
}

// RegisterRoutes registers the unauthenticated system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health reports liveness. It never touches dependencies so a wedged
// database cannot make the orchestrator restart-loop the process.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready reports readiness by checking each dependency
func (h *SystemHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Ping(); err != nil {
		checks["database"] = gin.H{"status": "down", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		dbCheck := gin.H{"status": "up"}
		if stats, err := h.db.Stats(); err == nil {
			dbCheck["open_connections"] = stats.OpenConnections
			dbCheck["in_use"] = stats.InUse
			dbCheck["idle"] = stats.Idle
		}
		checks["database"] = dbCheck
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = gin.H{"status": "up"}
		}
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
