package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
)

// MediaHandler handles question image uploads.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload godoc
// POST /api/v1/admin/media/upload
// Accepts a multipart "file" field and returns its public URL path.
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	url, err := h.mediaService.SaveUpload(file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}
