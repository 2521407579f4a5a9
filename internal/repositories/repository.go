package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup matches no document
var ErrNotFound = errors.New("not found")

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	// Upsert inserts or replaces the participant keyed by Identifier and reports whether it was created
	Upsert(ctx context.Context, participant *models.Participant) (bool, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Participant, error)
	FindByEmail(ctx context.Context, email string) (*models.Participant, error)
	FindAll(ctx context.Context) ([]*models.Participant, error)
	SetPINHash(ctx context.Context, identifier, pinHash string, generatedAt time.Time) error
	ClearWishlists(ctx context.Context) error
	Delete(ctx context.Context, identifier string) error
	DeleteAll(ctx context.Context) error
}

// AssignmentRepository defines the interface for giver/receiver pair storage
type AssignmentRepository interface {
	CreateMany(ctx context.Context, assignments []*models.Assignment) error
	FindByRunID(ctx context.Context, runID primitive.ObjectID) ([]*models.Assignment, error)
	FindByRunAndGiver(ctx context.Context, runID primitive.ObjectID, giver string) (*models.Assignment, error)
	CountByRunID(ctx context.Context, runID primitive.ObjectID) (int64, error)
	DeleteAll(ctx context.Context) error
}

// MatchRunRepository defines the interface for match run records
type MatchRunRepository interface {
	Create(ctx context.Context, run *models.MatchRun) error
	Update(ctx context.Context, run *models.MatchRun) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MatchRun, error)
	// FindAll returns runs newest first
	FindAll(ctx context.Context) ([]*models.MatchRun, error)
	// FindLatestByStatus returns the run with the given status that finished last
	FindLatestByStatus(ctx context.Context, status models.MatchRunStatus) (*models.MatchRun, error)
	DeleteAll(ctx context.Context) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	FindByRecipient(ctx context.Context, recipient string, page, limit int) ([]*models.Notification, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Notification, error)
}

// SystemSettingsRepository defines the interface for system settings operations
type SystemSettingsRepository interface {
	// GetSettings returns the stored settings, creating the defaults on first use
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings *models.SystemSettings) error
}

// Pagination returns the number of documents to skip for a 1-based page
func Pagination(page, limit int) (skip, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return (page - 1) * limit, limit
}
