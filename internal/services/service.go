package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is re-exported so handlers only depend on this package
	ErrNotFound = repositories.ErrNotFound

	ErrValidation         = errors.New("validation failed")
	ErrNoAssignment       = errors.New("no assignment yet")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRunInProgress      = errors.New("a match run is already in progress")
	ErrDeliveryFailed     = errors.New("email delivery failed")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// MatchService defines the interface for running and reading assignments
type MatchService interface {
	// RunMatching computes and stores a new assignment. An empty policy uses the system setting.
	RunMatching(ctx context.Context, policy, triggeredBy string) (*models.MatchRun, error)

	GetRun(ctx context.Context, id primitive.ObjectID) (*models.MatchRun, error)
	ListRuns(ctx context.Context) ([]*models.MatchRun, error)
	GetRunPairs(ctx context.Context, id primitive.ObjectID) ([]*models.Assignment, error)

	// GetAssignmentForGiver reveals the receiver of identifier in the current run
	GetAssignmentForGiver(ctx context.Context, identifier string) (*models.AssignmentDetails, error)

	// NotifyAssignments emails every giver of the current run a link to reveal their match
	NotifyAssignments(ctx context.Context) (sent, failed int, err error)
}

// ParticipantService defines the interface for participant-related operations
type ParticipantService interface {
	SaveProfile(ctx context.Context, identifier string, req *models.ProfileRequest) (*models.Participant, bool, error)
	AddParticipant(ctx context.Context, req *models.AdminParticipantRequest) (*models.Participant, bool, error)
	SaveWishlist(ctx context.Context, identifier string, items []models.WishlistItem) (*models.Participant, error)
	GetProfile(ctx context.Context, identifier string) (*models.Participant, error)
	ListParticipants(ctx context.Context) ([]*models.Participant, error)
	DeleteParticipant(ctx context.Context, identifier string) error

	// GeneratePINs replaces every participant's PIN and returns the plaintext PINs once
	GeneratePINs(ctx context.Context) (map[string]string, error)

	ClearWishlists(ctx context.Context) error
	ClearAll(ctx context.Context) error
	Stats(ctx context.Context) (*models.ParticipantStats, error)
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportSummary, error)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	RequestMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, token string) (*models.Session, error)
	LoginWithPIN(ctx context.Context, identifier, pin string) (*models.Session, error)
}

// NotificationService defines the interface for notification-related operations
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, html, notificationType string) (*models.Notification, error)
	GetNotificationsByStatus(ctx context.Context, status string, page, limit int) ([]*models.Notification, error)
	GetNotificationsByRecipient(ctx context.Context, recipient string, page, limit int) ([]*models.Notification, error)
}

// SystemSettingsService defines the interface for system settings operations
type SystemSettingsService interface {
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.SystemSettings, error)
}
