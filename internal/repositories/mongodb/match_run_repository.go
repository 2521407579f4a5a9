package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchRunRepository implements the repositories.MatchRunRepository interface
type MatchRunRepository struct {
	collection *mongo.Collection
}

// NewMatchRunRepository creates a new MatchRunRepository
func NewMatchRunRepository(db *mongo.Database) repositories.MatchRunRepository {
	return &MatchRunRepository{
		collection: db.Collection("match_runs"),
	}
}

// Create inserts a new run
func (r *MatchRunRepository) Create(ctx context.Context, run *models.MatchRun) error {
	run.CreatedAt = time.Now()
	run.UpdatedAt = time.Now()
	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to insert match run: %w", err)
	}
	return nil
}

// Update replaces a run
func (r *MatchRunRepository) Update(ctx context.Context, run *models.MatchRun) error {
	run.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": run.ID}, run)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByID finds a run by ID
func (r *MatchRunRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MatchRun, error) {
	var run models.MatchRun
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// FindAll finds all runs, newest first
func (r *MatchRunRepository) FindAll(ctx context.Context) ([]*models.MatchRun, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []*models.MatchRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*models.MatchRun{}
	}
	return runs, nil
}

// FindLatestByStatus finds the run with the given status that finished last
func (r *MatchRunRepository) FindLatestByStatus(ctx context.Context, status models.MatchRunStatus) (*models.MatchRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "executionEndTime", Value: -1}, {Key: "createdAt", Value: -1}})

	var run models.MatchRun
	err := r.collection.FindOne(ctx, bson.M{"status": status}, opts).Decode(&run)
	if err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// DeleteAll removes every run
func (r *MatchRunRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
