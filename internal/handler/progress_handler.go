package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/middleware"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// ProgressHandler handles the progress endpoints.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Get godoc
// GET /api/v1/progress
// Returns the user's cumulative progress aggregate. Missing or corrupt
// persisted data yields the empty aggregate, never an error.
func (h *ProgressHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	agg, err := h.progressService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"progress": agg})
}

// History godoc
// GET /api/v1/progress/history
// Returns the durable copy of the user's progress: recent completed
// sessions and per-category totals.
func (h *ProgressHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	history, categories, err := h.progressService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": history, "categories": categories})
}

// Clear godoc
// DELETE /api/v1/progress
// Resets the user's progress to the empty aggregate.
func (h *ProgressHandler) Clear(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.progressService.Clear(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
