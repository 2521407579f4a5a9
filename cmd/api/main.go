package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/secret-santa-backend/api/routes"
	"github.com/ArowuTest/secret-santa-backend/internal/config"
	"github.com/ArowuTest/secret-santa-backend/internal/logging"
	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/metrics"
	"github.com/ArowuTest/secret-santa-backend/internal/services"
	"github.com/ArowuTest/secret-santa-backend/internal/storage"
	"github.com/ArowuTest/secret-santa-backend/pkg/jwt"
	"github.com/ArowuTest/secret-santa-backend/pkg/mailgateway"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.LogLevel, nil)
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err, "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.MagicLinkTTL)

	notificationService := services.NewNotificationService(repos.Notifications, repos.Settings, cfg.Email.From, collector, gateways(cfg)...)
	participantService := services.NewParticipantService(repos.Participants, repos.Assignments, repos.MatchRuns, services.ParticipantRules{
		PledgeMinLength:  cfg.Exchange.PledgeMinLength,
		WishlistMaxItems: cfg.Exchange.WishlistMaxItems,
	})
	matchService := services.NewMatchService(repos.Participants, repos.Assignments, repos.MatchRuns, repos.Settings,
		matching.NewEngine(), notificationService, collector, cfg.Exchange.AppDomain)
	authService := services.NewAuthService(repos.Participants, tokens, notificationService,
		cfg.Exchange.AppDomain, cfg.JWT.MagicLinkTTL, cfg.Exchange.IsAdmin)
	settingsService := services.NewSystemSettingsService(repos.Settings, notificationService.GatewayNames())

	router := routes.SetupRouter(cfg, routes.Dependencies{
		Tokens:        tokens,
		Auth:          authService,
		Participants:  participantService,
		Matching:      matchService,
		Notifications: notificationService,
		Settings:      settingsService,
		Health:        repos,
		Gatherer:      registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver, "policy", cfg.Exchange.Policy)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

// gateways registers Resend when it has credentials. The mock gateway is
// added when requested or when nothing else can deliver.
func gateways(cfg *config.Config) []mailgateway.Gateway {
	var out []mailgateway.Gateway
	if !cfg.Email.MockGateway && cfg.Email.Resend.APIKey != "" {
		out = append(out, mailgateway.NewResendGateway(cfg.Email.Resend.BaseURL, cfg.Email.Resend.APIKey))
	}
	if len(out) == 0 {
		slog.Warn("Email is logged, not delivered", "gateway", mailgateway.GatewayMock)
		out = append(out, mailgateway.NewMockGateway(mailgateway.GatewayMock))
	}
	return out
}
