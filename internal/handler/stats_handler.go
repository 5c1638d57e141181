package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// StatsHandler handles the admin dashboard.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard godoc
// GET /api/v1/admin/stats
// Returns summary counts, per-category activity, recent sessions and the
// signup trend in one payload.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.GetDashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
