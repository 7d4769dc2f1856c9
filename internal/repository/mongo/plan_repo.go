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

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository using MongoDB.
// Plans embed their days and exercises as a single document.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a plan repository over the given database.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan user ID and name are required")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a plan by its ObjectID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByUserID retrieves all of a user's plans, newest first.
func (r *mongoPlanRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetActive retrieves the user's currently active plan.
func (r *mongoPlanRepository) GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "isActive": true}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Update replaces the plan's mutable fields.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	update := bson.M{
		"$set": bson.M{
			"name":        plan.Name,
			"description": plan.Description,
			"days":        plan.Days,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID, "userId": plan.UserID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive marks one plan active and clears the flag on every other plan
// the user owns.
func (r *mongoPlanRepository) SetActive(ctx context.Context, userID, planID primitive.ObjectID) error {
	now := time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": planID, "userId": userID},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	_, err = r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "_id": bson.M{"$ne": planID}, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	return err
}

// Delete removes a plan, scoped to its owner.
func (r *mongoPlanRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
