package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/middleware"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// SharingHandler handles the social-unlock endpoints.
type SharingHandler struct {
	sharingService *service.SharingService
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(sharingService *service.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

// Status godoc
// GET /api/v1/sharing/status
// Reports whether the user has unlocked premium questions.
func (h *SharingHandler) Status(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sharing, err := h.sharingService.Status(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sharing": sharing})
}

// Unlock godoc
// POST /api/v1/sharing/unlock
// Records a share and unlocks premium questions. Idempotent.
func (h *SharingHandler) Unlock(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sharing, err := h.sharingService.Unlock(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sharing": sharing})
}
