package routes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"civic-feedback-server/logger"
	"civic-feedback-server/services"
	"civic-feedback-server/utils"
)

const maxImageSize = 5 * 1024 * 1024

var errInvalidImage = errors.New("image must be a jpg, png or webp file of at most 5MB")

// validateImageFile validates extension and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > maxImageSize {
		return false
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadFeedbackImage stores the "image" form file and returns its URL,
// to be sent back as image_url with the submission
func (h *FeedbackHandler) uploadFeedbackImage(c *gin.Context) {
	if h.uploader == nil {
		_ = c.Error(utils.ServiceUnavailable("Image upload is not configured", services.ErrUploadNotConfigured))
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(utils.BadRequest(errors.New("no image provided")))
		return
	}
	if !validateImageFile(header) {
		_ = c.Error(utils.BadRequest(errInvalidImage))
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(utils.BadRequest(errors.New("unreadable image")))
		return
	}
	defer file.Close()

	logger.Info().Str("filename", header.Filename).Int64("size", header.Size).Msg("📸 Uploading feedback image")
	url, err := h.uploader.UploadFeedbackImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		_ = c.Error(utils.NewAppError(http.StatusBadGateway, "Image upload failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"image_url": url},
	})
}
