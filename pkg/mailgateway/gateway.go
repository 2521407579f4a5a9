package mailgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Gateway names as stored in system settings
const (
	GatewayResend = "RESEND"
	GatewayMock   = "MOCK"
)

var ErrNotConfigured = errors.New("email gateway not configured")

// Message is a single outgoing email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Gateway represents an email gateway interface
type Gateway interface {
	Name() string
	SendEmail(ctx context.Context, msg Message) (string, error)
}

// ResendGateway delivers email through the Resend HTTP API
type ResendGateway struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// MockGateway logs emails instead of sending them
type MockGateway struct {
	name string
}

// NewResendGateway creates a new ResendGateway
func NewResendGateway(baseURL, apiKey string) *ResendGateway {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &ResendGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new mock email gateway
func NewMockGateway(name string) *MockGateway {
	return &MockGateway{name: name}
}

func (g *ResendGateway) Name() string { return GatewayResend }

// SendEmail sends an email using the Resend gateway
func (g *ResendGateway) SendEmail(ctx context.Context, msg Message) (string, error) {
	if g.APIKey == "" {
		return "", ErrNotConfigured
	}

	requestBody := map[string]interface{}{
		"from":    msg.From,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.APIKey))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return response.ID, nil
}

func (g *MockGateway) Name() string { return g.name }

// SendEmail logs the email and returns a synthetic message ID
func (g *MockGateway) SendEmail(ctx context.Context, msg Message) (string, error) {
	msgID := fmt.Sprintf("%s-MOCK-MSG-%d", g.name, time.Now().UnixNano())
	slog.Info("Mock gateway simulating email", "gateway", g.name, "to", msg.To, "subject", msg.Subject, "messageId", msgID)
	return msgID, nil
}
