package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"github.com/ArowuTest/secret-santa-backend/internal/utils"
	"github.com/ArowuTest/secret-santa-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl issues magic links and session tokens
type AuthServiceImpl struct {
	participantRepo repositories.ParticipantRepository
	tokens          *jwt.TokenService
	notifier        NotificationService
	appDomain       string
	magicLinkTTL    time.Duration
	isAdmin         func(email string) bool
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(
	participantRepo repositories.ParticipantRepository,
	tokens *jwt.TokenService,
	notifier NotificationService,
	appDomain string,
	magicLinkTTL time.Duration,
	isAdmin func(email string) bool,
) *AuthServiceImpl {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthServiceImpl{
		participantRepo: participantRepo,
		tokens:          tokens,
		notifier:        notifier,
		appDomain:       appDomain,
		magicLinkTTL:    magicLinkTTL,
		isAdmin:         isAdmin,
	}
}

// RequestMagicLink emails a login link. Unknown addresses are allowed; the
// profile is created on first save.
func (s *AuthServiceImpl) RequestMagicLink(ctx context.Context, email string) error {
	normalized := utils.NormalizeEmail(email)
	if normalized == "" {
		return validationError("invalid email %q", email)
	}

	token, _, err := s.tokens.IssueMagicLink(normalized)
	if err != nil {
		return err
	}
	subject, html := magicLinkEmail(s.loginLink(token), formatTTL(s.magicLinkTTL))
	if _, err := s.notifier.SendEmail(ctx, normalized, subject, html, models.NotificationTypeMagicLink); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}
	slog.Info("Magic link sent", "email", normalized)
	return nil
}

func (s *AuthServiceImpl) loginLink(token string) string {
	sep := "?"
	if strings.Contains(s.appDomain, "?") {
		sep = "&"
	}
	return s.appDomain + sep + "token=" + url.QueryEscape(token)
}

func formatTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}

// VerifyMagicLink exchanges a magic-link token for a session
func (s *AuthServiceImpl) VerifyMagicLink(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.tokens.Parse(token, jwt.PurposeMagicLink)
	if err != nil {
		slog.Warn("Magic link rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	email := claims.Email
	identifier, err := s.identifierFor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	role := models.RoleParticipant
	if s.isAdmin(email) {
		role = models.RoleAdmin
	}
	return s.session(identifier, email, role)
}

// identifierFor resolves the participant a verified email logs in as. The
// participant identified by the address itself always wins; an unknown
// address logs in as itself.
func (s *AuthServiceImpl) identifierFor(ctx context.Context, email string) (string, error) {
	participant, err := s.participantRepo.FindByIdentifier(ctx, email)
	if err == nil {
		return participant.Identifier, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}
	participant, err = s.participantRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return participant.Identifier, nil
	case errors.Is(err, repositories.ErrNotFound):
		return email, nil
	default:
		return "", err
	}
}

// LoginWithPIN checks the PIN handed out by an admin
func (s *AuthServiceImpl) LoginWithPIN(ctx context.Context, identifier, pin string) (*models.Session, error) {
	participant, err := s.participantRepo.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if !participant.HasPIN() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(participant.PINHash), []byte(pin)); err != nil {
		slog.Warn("PIN login rejected", "identifier", participant.Identifier)
		return nil, ErrInvalidCredentials
	}
	return s.session(participant.Identifier, participant.Email, models.RoleParticipant)
}

func (s *AuthServiceImpl) session(identifier, email, role string) (*models.Session, error) {
	token, expiresAt, err := s.tokens.IssueSession(identifier, email, role)
	if err != nil {
		return nil, err
	}
	return &models.Session{Token: token, Identifier: identifier, Role: role, ExpiresAt: expiresAt}, nil
}
