package mailgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResendGateway_SendEmail(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		require.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	gw := NewResendGateway(srv.URL+"/", "re_test")
	id, err := gw.SendEmail(context.Background(), Message{
		From:    "santa@example.com",
		To:      "ana@example.com",
		Subject: "Your login link",
		HTML:    "<p>hi</p>",
	})

	require.NoError(t, err)
	require.Equal(t, "email_123", id)
	require.Equal(t, "santa@example.com", got["from"])
	require.Equal(t, []interface{}{"ana@example.com"}, got["to"])
	require.Equal(t, GatewayResend, gw.Name())
}

func TestResendGateway_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewResendGateway("", "").SendEmail(context.Background(), Message{To: "a@example.com"})
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("non 2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid from"}`))
		}))
		defer srv.Close()

		_, err := NewResendGateway(srv.URL, "re_test").SendEmail(context.Background(), Message{To: "a@example.com"})
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), "422"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewResendGateway(srv.URL, "re_test").SendEmail(ctx, Message{To: "a@example.com"})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestMockGateway(t *testing.T) {
	gw := NewMockGateway(GatewayMock)

	id, err := gw.SendEmail(context.Background(), Message{To: "a@example.com", Subject: "hi"})

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "MOCK-MOCK-MSG-"))
	require.Equal(t, GatewayMock, gw.Name())
}
