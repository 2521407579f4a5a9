package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour, 24*time.Hour)

	t.Run("magic link round trip", func(t *testing.T) {
		token, expiresAt, err := svc.IssueMagicLink(" Ana@Example.com ")
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

		claims, err := svc.Parse(token, PurposeMagicLink)
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", claims.Email)
		require.Equal(t, "ana@example.com", claims.Subject)
	})

	t.Run("session carries role", func(t *testing.T) {
		token, _, err := svc.IssueSession("bora", "bora@example.com", "admin")
		require.NoError(t, err)

		claims, err := svc.Parse(token, PurposeSession)
		require.NoError(t, err)
		require.Equal(t, "bora", claims.Subject)
		require.Equal(t, "admin", claims.Role)
	})

	t.Run("purpose must match", func(t *testing.T) {
		token, _, err := svc.IssueMagicLink("ana@example.com")
		require.NoError(t, err)

		_, err = svc.Parse(token, PurposeSession)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewTokenService("other", time.Hour, time.Hour).IssueSession("x", "", "participant")
		require.NoError(t, err)

		_, err = svc.Parse(token, PurposeSession)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenService("s3cret", time.Hour, time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.IssueSession("x", "", "participant")
		require.NoError(t, err)

		_, err = svc.Parse(token, PurposeSession)
		require.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token", PurposeSession)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
