package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"invodex/internal/represent"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db         *sqlx.DB
	rasterizer *represent.Rasterizer
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, rasterizer *represent.Rasterizer) *HealthHandler {
	return &HealthHandler{db: db, rasterizer: rasterizer}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. It pings the database and reports whether
// PDF rasterization is available on this host.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"pdf":    h.rasterizer.Available() == nil,
	})
}
