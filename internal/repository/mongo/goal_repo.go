package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

const goalCollectionName = "goals"

// mongoGoalRepository implements repository.GoalRepository using MongoDB.
type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a goal repository over the given database.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Create inserts a new goal.
func (r *mongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.UserID == primitive.NilObjectID || goal.Title == "" {
		return primitive.NilObjectID, errors.New("goal user ID and title are required")
	}

	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves all of a user's goals, newest first.
func (r *mongoGoalRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []domain.Goal
	if err = cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Update replaces the goal's editable fields, scoped to its owner.
func (r *mongoGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	update := bson.M{
		"$set": bson.M{
			"title":       goal.Title,
			"description": goal.Description,
			"targetDate":  goal.TargetDate,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": goal.ID, "userId": goal.UserID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkAchieved flips a goal to achieved with the given timestamp.
func (r *mongoGoalRepository) MarkAchieved(ctx context.Context, id, userID primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"achieved":   true,
			"achievedAt": at,
			"updatedAt":  time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a goal, scoped to its owner.
func (r *mongoGoalRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGoalIndexes creates necessary indexes for the goals collection.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
