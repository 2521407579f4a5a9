// Package storage opens the repository set selected by the storage driver.
package storage

import (
	"context"
	"fmt"

	"github.com/ArowuTest/secret-santa-backend/internal/config"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/secret-santa-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/secret-santa-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

// Repositories is the full set of repositories used by the services
type Repositories struct {
	Participants  repositories.ParticipantRepository
	Assignments   repositories.AssignmentRepository
	MatchRuns     repositories.MatchRunRepository
	Notifications repositories.NotificationRepository
	Settings      repositories.SystemSettingsRepository

	client *mongodb.Client
}

// DefaultSettings seeds the settings document from configuration
func DefaultSettings(cfg *config.Config) models.SystemSettings {
	return models.SystemSettings{
		MatchingPolicy: cfg.Exchange.Policy,
		EmailGateway:   cfg.Email.DefaultGateway,
	}
}

// Open connects to the configured backend
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	defaults := DefaultSettings(cfg)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore(defaults)
		return &Repositories{
			Participants:  store.Participants,
			Assignments:   store.Assignments,
			MatchRuns:     store.MatchRuns,
			Notifications: store.Notifications,
			Settings:      store.Settings,
		}, nil

	case config.StorageMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB.Database)

		participants := mongorepo.NewParticipantRepository(db)
		if err := participants.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		slog.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

		return &Repositories{
			Participants:  participants,
			Assignments:   mongorepo.NewAssignmentRepository(db),
			MatchRuns:     mongorepo.NewMatchRunRepository(db),
			Notifications: mongorepo.NewNotificationRepository(db),
			Settings:      mongorepo.NewSystemSettingsRepository(db, defaults),
			client:        client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Ping checks the backend. It is a no-op for in-memory storage.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx)
}

// Close releases the MongoDB connection, if any
func (r *Repositories) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
