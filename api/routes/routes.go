package routes

import (
	"github.com/ArowuTest/secret-santa-backend/internal/config"
	"github.com/ArowuTest/secret-santa-backend/internal/handlers"
	"github.com/ArowuTest/secret-santa-backend/internal/middleware"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/ArowuTest/secret-santa-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the router exposes
type Dependencies struct {
	Tokens        *jwt.TokenService
	Auth          services.AuthService
	Participants  services.ParticipantService
	Matching      services.MatchService
	Notifications services.NotificationService
	Settings      services.SystemSettingsService
	// Health is optional; nil skips the storage ping
	Health handlers.Pinger
	// Gatherer serves /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Create handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	participantHandler := handlers.NewParticipantHandler(deps.Participants)
	matchHandler := handlers.NewMatchHandler(deps.Matching)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	settingsHandler := handlers.NewSystemSettingsHandler(deps.Settings)
	healthHandler := handlers.NewHealthHandler(cfg.Storage.Driver, deps.Health)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", healthHandler.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/magic-link", authHandler.RequestMagicLink)
			auth.POST("/verify", authHandler.VerifyMagicLink)
			auth.POST("/pin-login", authHandler.PINLogin)
		}
	}

	// Participant routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		me := protected.Group("/me")
		{
			me.GET("/profile", participantHandler.GetMyProfile)
			me.PUT("/profile", participantHandler.SaveMyProfile)
			me.PUT("/wishlist", participantHandler.SaveMyWishlist)
			me.GET("/assignment", matchHandler.GetMyAssignment)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(deps.Tokens), middleware.AdminOnly())
	{
		participants := admin.Group("/participants")
		{
			participants.GET("", participantHandler.ListParticipants)
			participants.POST("", participantHandler.AddParticipant)
			participants.DELETE("", participantHandler.ClearAll)
			participants.POST("/import", participantHandler.ImportParticipants)
			participants.POST("/pins", participantHandler.GeneratePINs)
			participants.DELETE("/wishlists", participantHandler.ClearWishlists)
			participants.DELETE("/:identifier", participantHandler.DeleteParticipant)
		}

		admin.GET("/stats", participantHandler.Stats)

		matching := admin.Group("/matching")
		{
			matching.POST("/runs", matchHandler.RunMatching)
			matching.GET("/runs", matchHandler.ListRuns)
			matching.GET("/runs/:id", matchHandler.GetRun)
			matching.GET("/runs/:id/pairs", matchHandler.GetRunPairs)
			matching.POST("/notify", matchHandler.NotifyAssignments)
		}

		admin.GET("/settings", settingsHandler.GetSettings)
		admin.PUT("/settings", settingsHandler.UpdateSettings)
		admin.GET("/notifications", notificationHandler.ListNotifications)
	}

	return router
}
