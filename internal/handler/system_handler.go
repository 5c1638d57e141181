package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SystemHandler handles health and liveness endpoints.
type SystemHandler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client) *SystemHandler {
	return &SystemHandler{pool: pool, rdb: rdb}
}

// Health godoc
// GET /health
// Reports dependency health. Returns 503 when Postgres or Redis is down.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := gin.H{"postgres": "ok", "redis": "ok"}

	if err := h.pool.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}
