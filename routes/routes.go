package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civic-feedback-server/middleware"
	"civic-feedback-server/services"
	ws "civic-feedback-server/websocket"
)

// Dependencies are the collaborators the HTTP surface needs
type Dependencies struct {
	Store          services.FeedbackStore
	Dashboard      *services.DashboardService
	Uploader       services.ImageUploader // nil disables image upload
	Hub            *ws.Hub                // nil disables the live dashboard
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// NewRouter builds the gin engine with the middleware stack and every route
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))
	router.Use(middleware.InputValidationMiddleware())
	if deps.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Civic Feedback Server is running",
			"time":    time.Now().UTC(),
		})
	})

	api := router.Group("/api/v1")
	{
		var opts []FeedbackOption
		if deps.Hub != nil {
			// New submissions show up on live dashboards without waiting for the tick
			opts = append(opts, WithCreatedHook(deps.Hub.Refresh))
		}
		RegisterFeedbackRoutes(api, deps.Store, deps.Uploader, opts...)

		RegisterOfficialRoutes(api, deps.Dashboard)
		if deps.Hub != nil {
			handler := ws.NewDashboardHandler(deps.Hub, deps.AllowedOrigins)
			api.GET("/official/ws", handler.HandleDashboard)
		}
	}

	return router
}
