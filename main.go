package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"civic-feedback-server/config"
	"civic-feedback-server/database"
	"civic-feedback-server/jobs"
	"civic-feedback-server/logger"
	"civic-feedback-server/middleware"
	"civic-feedback-server/routes"
	"civic-feedback-server/services"
	ws "civic-feedback-server/websocket"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Load configuration
	config.Load()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env, cfg.Log.Level)
	if envErr != nil {
		logger.Info().Msg("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	database.InitRedis(ctx)

	store := services.NewCachedFeedbackStore(
		services.NewGormFeedbackStore(database.DB),
		database.Redis,
		cfg.Redis.CacheTTL,
	)
	dashboard := services.NewDashboardService(store, cfg.Dashboard.PageSize)

	var uploader services.ImageUploader
	if cld, err := services.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Feedback image upload disabled")
	} else {
		uploader = cld
	}

	// Live dashboard hub
	hub := ws.NewHub(dashboard)
	go hub.Run()
	defer hub.Stop()

	// Start background jobs
	refreshJob := jobs.NewRefreshJob(hub, cfg.Dashboard.RefreshInterval)
	refreshJob.Start()
	defer refreshJob.Stop()

	rateLimiter := middleware.NewRateLimiter()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := rateLimiter.Cleanup(time.Hour); n > 0 {
					logger.Debug().Int("removed", n).Msg("🧹 Idle rate limiters removed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(routes.Dependencies{
		Store:          store,
		Dashboard:      dashboard,
		Uploader:       uploader,
		Hub:            hub,
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
