package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/metrics"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"github.com/ArowuTest/secret-santa-backend/pkg/mailgateway"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl sends email through the configured gateway and falls back to the others
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	settingsRepo     repositories.SystemSettingsRepository
	gateways         []mailgateway.Gateway
	from             string
	metrics          metrics.Recorder
}

// NewNotificationService creates a new NotificationServiceImpl. Gateways are
// tried in the given order after the one selected in system settings.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	settingsRepo repositories.SystemSettingsRepository,
	from string,
	recorder metrics.Recorder,
	gateways ...mailgateway.Gateway,
) *NotificationServiceImpl {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		gateways:         gateways,
		from:             from,
		metrics:          recorder,
	}
}

// GatewayNames lists the registered gateways
func (s *NotificationServiceImpl) GatewayNames() []string {
	names := make([]string, 0, len(s.gateways))
	for _, g := range s.gateways {
		names = append(names, g.Name())
	}
	return names
}

// orderedGateways puts the preferred gateway first
func (s *NotificationServiceImpl) orderedGateways(preferred string) []mailgateway.Gateway {
	ordered := make([]mailgateway.Gateway, 0, len(s.gateways))
	for _, g := range s.gateways {
		if g.Name() == preferred {
			ordered = append(ordered, g)
		}
	}
	for _, g := range s.gateways {
		if g.Name() != preferred {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// SendEmail sends an email and records the attempt
func (s *NotificationServiceImpl) SendEmail(ctx context.Context, to, subject, html, notificationType string) (*models.Notification, error) {
	preferred := ""
	if settings, err := s.settingsRepo.GetSettings(ctx); err != nil {
		slog.Warn("Failed to get system settings, using gateway order", "error", err)
	} else {
		preferred = settings.EmailGateway
	}

	notification := &models.Notification{
		Recipient: to,
		Subject:   subject,
		Content:   html,
		Type:      notificationType,
		Status:    models.NotificationStatusPending,
		Gateway:   preferred,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}

	msg := mailgateway.Message{From: s.from, To: to, Subject: subject, HTML: html}
	var lastErr error = mailgateway.ErrNotConfigured
	for _, gateway := range s.orderedGateways(preferred) {
		messageID, err := gateway.SendEmail(ctx, msg)
		if err != nil {
			s.metrics.RecordEmail(gateway.Name(), models.NotificationStatusFailed)
			slog.Warn("Email gateway failed, trying next", "gateway", gateway.Name(), "error", err, "type", notificationType)
			lastErr = err
			continue
		}
		s.metrics.RecordEmail(gateway.Name(), models.NotificationStatusSent)
		notification.Status = models.NotificationStatusSent
		notification.Gateway = gateway.Name()
		notification.MessageID = messageID
		notification.SentDate = time.Now()
		notification.ErrorMessage = ""
		if err := s.notificationRepo.Update(ctx, notification); err != nil {
			slog.Error("Failed to update notification status", "error", err, "notificationId", notification.ID)
		}
		return notification, nil
	}

	notification.Status = models.NotificationStatusFailed
	notification.ErrorMessage = lastErr.Error()
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		slog.Error("Failed to update notification status", "error", err, "notificationId", notification.ID)
	}
	return notification, fmt.Errorf("%w: %v", ErrDeliveryFailed, lastErr)
}

// GetNotificationsByStatus retrieves notifications by status with pagination
func (s *NotificationServiceImpl) GetNotificationsByStatus(ctx context.Context, status string, page, limit int) ([]*models.Notification, error) {
	return s.notificationRepo.FindByStatus(ctx, status, page, limit)
}

// GetNotificationsByRecipient retrieves notifications sent to an address with pagination
func (s *NotificationServiceImpl) GetNotificationsByRecipient(ctx context.Context, recipient string, page, limit int) ([]*models.Notification, error) {
	return s.notificationRepo.FindByRecipient(ctx, recipient, page, limit)
}
