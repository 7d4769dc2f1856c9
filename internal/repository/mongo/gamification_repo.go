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

const gamificationCollectionName = "gamification"

// mongoGamificationRepository implements repository.GamificationRepository.
type mongoGamificationRepository struct {
	collection *mongo.Collection
}

// NewMongoGamificationRepository creates a gamification repository over the
// given database.
func NewMongoGamificationRepository(db *mongo.Database) repository.GamificationRepository {
	return &mongoGamificationRepository{
		collection: db.Collection(gamificationCollectionName),
	}
}

// GetAggregate retrieves the user's progression row.
func (r *mongoGamificationRepository) GetAggregate(ctx context.Context, userID primitive.ObjectID) (*domain.GamificationAggregate, error) {
	var agg domain.GamificationAggregate
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&agg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &agg, nil
}

// ApplyDelta atomically applies increments and the streak-best max in a
// single upserting FindOneAndUpdate, returning the post-update row. Two
// devices completing workouts at the same time both land their increments;
// there is no read-modify-write window on xp or the totals.
func (r *mongoGamificationRepository) ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta repository.AggregateDelta) (*domain.GamificationAggregate, error) {
	update := bson.M{
		"$inc": bson.M{
			"xp":            delta.XP,
			"totalWorkouts": delta.Workouts,
			"totalMinutes":  delta.Minutes,
		},
		"$max": bson.M{"streakBest": delta.StreakBest},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
		"$setOnInsert": bson.M{
			"userId": userID,
			"level":  1,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var agg domain.GamificationAggregate
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&agg)
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// SetLevel stores the level derived from the row's XP. Level is a monotone
// pure function of xp, so concurrent writers converge on the same value
// once the last one lands.
func (r *mongoGamificationRepository) SetLevel(ctx context.Context, userID primitive.ObjectID, level int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"level": level, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGamificationIndexes creates necessary indexes for the gamification
// collection.
func EnsureGamificationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
