package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the gateway selected in settings", func(t *testing.T) {
		store := newStore(matching.PolicyHardPartition)
		resend := &stubGateway{name: "RESEND"}
		mock := &stubGateway{name: "MOCK"}
		svc := NewNotificationService(store.Notifications, store.Settings, "santa@example.com", nil, resend, mock)

		n, err := svc.SendEmail(ctx, "ana@example.com", "Hi", "<p>hi</p>", models.NotificationTypeMagicLink)

		require.NoError(t, err)
		require.Equal(t, models.NotificationStatusSent, n.Status)
		require.Equal(t, "MOCK", n.Gateway)
		require.Equal(t, "MOCK-id", n.MessageID)
		require.Empty(t, resend.messages())
		require.Len(t, mock.messages(), 1)
		require.Equal(t, "santa@example.com", mock.messages()[0].From)
		require.Equal(t, []string{"RESEND", "MOCK"}, svc.GatewayNames())
	})

	t.Run("falls back when the preferred gateway fails", func(t *testing.T) {
		store := newStore(matching.PolicyHardPartition)
		mock := &stubGateway{name: "MOCK", err: errors.New("boom")}
		resend := &stubGateway{name: "RESEND"}
		svc := NewNotificationService(store.Notifications, store.Settings, "santa@example.com", nil, resend, mock)

		n, err := svc.SendEmail(ctx, "ana@example.com", "Hi", "<p>hi</p>", models.NotificationTypeAssignment)

		require.NoError(t, err)
		require.Equal(t, "RESEND", n.Gateway)
		require.Len(t, resend.messages(), 1)
	})

	t.Run("records a failure when every gateway fails", func(t *testing.T) {
		store := newStore(matching.PolicyHardPartition)
		svc := NewNotificationService(store.Notifications, store.Settings, "santa@example.com", nil,
			&stubGateway{name: "MOCK", err: errors.New("mock down")},
			&stubGateway{name: "RESEND", err: errors.New("resend down")})

		n, err := svc.SendEmail(ctx, "ana@example.com", "Hi", "<p>hi</p>", models.NotificationTypeMagicLink)

		require.ErrorIs(t, err, ErrDeliveryFailed)
		require.Equal(t, models.NotificationStatusFailed, n.Status)
		require.Equal(t, "resend down", n.ErrorMessage)

		failed, err := svc.GetNotificationsByStatus(ctx, models.NotificationStatusFailed, 1, 10)
		require.NoError(t, err)
		require.Len(t, failed, 1)
	})

	t.Run("no gateways registered", func(t *testing.T) {
		store := newStore(matching.PolicyHardPartition)
		svc := NewNotificationService(store.Notifications, store.Settings, "santa@example.com", nil)

		_, err := svc.SendEmail(ctx, "ana@example.com", "Hi", "<p>hi</p>", models.NotificationTypeMagicLink)

		require.ErrorIs(t, err, ErrDeliveryFailed)
	})
}

func TestNotificationService_Listing(t *testing.T) {
	ctx := context.Background()
	store := newStore(matching.PolicyHardPartition)
	svc := NewNotificationService(store.Notifications, store.Settings, "santa@example.com", nil, &stubGateway{name: "MOCK"})

	for _, to := range []string{"ana@example.com", "bora@example.com", "ana@example.com"} {
		_, err := svc.SendEmail(ctx, to, "Hi", "<p>hi</p>", models.NotificationTypeAssignment)
		require.NoError(t, err)
	}

	ana, err := svc.GetNotificationsByRecipient(ctx, "ana@example.com", 1, 10)
	require.NoError(t, err)
	require.Len(t, ana, 2)

	all, err := svc.GetNotificationsByStatus(ctx, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, all, 2)

	page2, err := svc.GetNotificationsByStatus(ctx, models.NotificationStatusSent, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
}
