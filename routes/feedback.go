package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-feedback-server/logger"
	"civic-feedback-server/models"
	"civic-feedback-server/services"
	"civic-feedback-server/utils"
)

// FeedbackHandler accepts citizen submissions
type FeedbackHandler struct {
	store     services.FeedbackStore
	uploader  services.ImageUploader
	now       func() time.Time
	onCreated func()
}

// FeedbackOption customizes a FeedbackHandler
type FeedbackOption func(*FeedbackHandler)

// WithClock sets the time source for submission timestamps
func WithClock(now func() time.Time) FeedbackOption {
	return func(h *FeedbackHandler) { h.now = now }
}

// WithCreatedHook runs fn after every stored submission
func WithCreatedHook(fn func()) FeedbackOption {
	return func(h *FeedbackHandler) { h.onCreated = fn }
}

// RegisterFeedbackRoutes registers the submission routes. uploader may be nil,
// in which case image upload answers 503.
func RegisterFeedbackRoutes(router *gin.RouterGroup, store services.FeedbackStore, uploader services.ImageUploader, opts ...FeedbackOption) {
	h := &FeedbackHandler{store: store, uploader: uploader, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}

	feedback := router.Group("/feedback")
	{
		feedback.POST("", h.submitFeedback)
		feedback.POST("/media", h.uploadFeedbackImage)
	}
}

// submitFeedback validates a submission, stamps it and stores it
func (h *FeedbackHandler) submitFeedback(c *gin.Context) {
	var req models.FeedbackCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.BadRequest(fmt.Errorf("invalid feedback: %w", err)))
		return
	}

	f, err := h.newFeedback(req)
	if err != nil {
		_ = c.Error(utils.BadRequest(err))
		return
	}

	if err := h.store.Create(c.Request.Context(), f); err != nil {
		_ = c.Error(utils.Internal("Failed to save feedback", err))
		return
	}

	logger.Info().
		Str("feedback_id", f.ID).
		Str("service_type", string(f.ServiceType)).
		Int("rating", f.Rating).
		Msg("📝 Feedback received")

	if h.onCreated != nil {
		h.onCreated()
	}

	view, err := f.View()
	if err != nil {
		_ = c.Error(utils.Internal("Failed to render feedback", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    view,
	})
}

// newFeedback turns a request into a validated Feedback with a fresh id and
// the server's timestamp
func (h *FeedbackHandler) newFeedback(req models.FeedbackCreate) (models.Feedback, error) {
	serviceType, err := models.ParseServiceType(req.ServiceType)
	if err != nil {
		return models.Feedback{}, err
	}
	if serviceType == models.ServiceAll {
		return models.Feedback{}, fmt.Errorf("%w: %q", models.ErrUnknownServiceType, req.ServiceType)
	}

	if req.Location != nil && !utils.IsLocationValid(req.Location.Latitude, req.Location.Longitude) {
		return models.Feedback{}, fmt.Errorf("%w: location out of range", models.ErrInvalidFeedback)
	}

	address := req.Address
	address.Street = strings.TrimSpace(address.Street)
	address.DoorNumber = strings.TrimSpace(address.DoorNumber)
	address.HouseNumber = strings.TrimSpace(address.HouseNumber)
	address.Landmark = strings.TrimSpace(address.Landmark)
	address.City = strings.TrimSpace(address.City)
	address.Pincode = strings.TrimSpace(address.Pincode)

	var imageURL *string
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		u := strings.TrimSpace(*req.ImageURL)
		imageURL = &u
	}

	f := models.Feedback{
		ID:          uuid.NewString(),
		ServiceType: serviceType,
		Address:     address,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		ImageURL:    imageURL,
		Location:    req.Location,
		Timestamp:   h.now().UnixMilli(),
	}
	if err := f.Validate(); err != nil {
		return models.Feedback{}, err
	}
	return f, nil
}
