package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ParticipantRepository implements the interface
var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository handles MongoDB operations for Participant
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("participants"),
	}
}

// EnsureIndexes creates the unique identifier and email indexes. Participants
// without an email are left out of the email index.
func (r *ParticipantRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "identifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string", "$gt": ""}}),
		},
	})
	return err
}

// Upsert replaces the participant with the same identifier or inserts a new one
func (r *ParticipantRepository) Upsert(ctx context.Context, participant *models.Participant) (bool, error) {
	now := time.Now()
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = now
	}
	participant.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"identifier": participant.Identifier}, participant, opts)
	if err != nil {
		return false, fmt.Errorf("failed to upsert participant %s: %w", participant.Identifier, err)
	}
	if res.UpsertedCount > 0 {
		if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
			participant.ID = id
		}
		return true, nil
	}
	return false, nil
}

// FindByIdentifier finds a participant by identifier
func (r *ParticipantRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Participant, error) {
	return r.findOne(ctx, bson.M{"identifier": identifier})
}

// FindByEmail finds the participant logging in with an email address. An
// exact identifier match wins over a stored email.
func (r *ParticipantRepository) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	participant, err := r.findOne(ctx, bson.M{"identifier": email})
	if !errors.Is(err, repositories.ErrNotFound) {
		return participant, err
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"email": email}, opts)
}

func (r *ParticipantRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Participant, error) {
	var participant models.Participant
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&participant)
	if err != nil {
		return nil, notFound(err)
	}
	return &participant, nil
}

// FindAll returns every participant in registration order
func (r *ParticipantRepository) FindAll(ctx context.Context) ([]*models.Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*models.Participant{}
	}
	return participants, nil
}

// SetPINHash stores the hashed reveal PIN of a participant
func (r *ParticipantRepository) SetPINHash(ctx context.Context, identifier, pinHash string, generatedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"pinHash":        pinHash,
			"pinGeneratedAt": generatedAt,
			"updatedAt":      time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"identifier": identifier}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ClearWishlists empties every wishlist but keeps the profiles
func (r *ParticipantRepository) ClearWishlists(ctx context.Context) error {
	update := bson.M{
		"$set": bson.M{
			"wishlist":  []models.WishlistItem{},
			"updatedAt": time.Now(),
		},
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{}, update)
	return err
}

// Delete removes a participant by identifier
func (r *ParticipantRepository) Delete(ctx context.Context, identifier string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"identifier": identifier})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteAll removes every participant
func (r *ParticipantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// notFound maps the driver's empty result error onto repositories.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}
