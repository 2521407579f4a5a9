package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignmentRepository implements the repositories.AssignmentRepository interface
type AssignmentRepository struct {
	collection *mongo.Collection
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *mongo.Database) repositories.AssignmentRepository {
	return &AssignmentRepository{
		collection: db.Collection("assignments"),
	}
}

// CreateMany stores the pairs of a run in one batch
func (r *AssignmentRepository) CreateMany(ctx context.Context, assignments []*models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(assignments))
	for _, a := range assignments {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		docs = append(docs, a)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByRunID returns the pairs of a run ordered by giver
func (r *AssignmentRepository) FindByRunID(ctx context.Context, runID primitive.ObjectID) ([]*models.Assignment, error) {
	opts := options.Find().SetSort(bson.M{"giver": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"runId": runID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []*models.Assignment{}
	}
	return assignments, nil
}

// FindByRunAndGiver returns the receiver assigned to a giver in a run
func (r *AssignmentRepository) FindByRunAndGiver(ctx context.Context, runID primitive.ObjectID, giver string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.collection.FindOne(ctx, bson.M{"runId": runID, "giver": giver}).Decode(&assignment)
	if err != nil {
		return nil, notFound(err)
	}
	return &assignment, nil
}

// CountByRunID counts the pairs of a run
func (r *AssignmentRepository) CountByRunID(ctx context.Context, runID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"runId": runID})
}

// DeleteAll removes every stored pair
func (r *AssignmentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
