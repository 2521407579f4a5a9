package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SystemSettingsRepository implements repositories.SystemSettingsRepository
type SystemSettingsRepository struct {
	collection *mongo.Collection
	defaults   models.SystemSettings
}

// NewSystemSettingsRepository creates a new SystemSettingsRepository.
// defaults is stored the first time settings are read.
func NewSystemSettingsRepository(db *mongo.Database, defaults models.SystemSettings) repositories.SystemSettingsRepository {
	return &SystemSettingsRepository{
		collection: db.Collection("system_settings"),
		defaults:   defaults,
	}
}

// GetSettings retrieves the current system settings
func (r *SystemSettingsRepository) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// If no settings exist, create default settings
		settings = r.defaults
		settings.ID = primitive.NewObjectID()
		settings.CreatedAt = time.Now()
		settings.UpdatedAt = time.Now()
		if _, err = r.collection.InsertOne(ctx, settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings updates all system settings
func (r *SystemSettingsRepository) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	settings.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{}, settings, opts)
	return err
}
