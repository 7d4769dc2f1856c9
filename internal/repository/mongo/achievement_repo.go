package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

const (
	achievementCollectionName = "achievements"
	unlockedCollectionName    = "unlocked_achievements"
)

// mongoAchievementRepository implements repository.AchievementRepository
// over two collections: the static catalog and the per-user unlock rows.
type mongoAchievementRepository struct {
	catalog  *mongo.Collection
	unlocked *mongo.Collection
}

// NewMongoAchievementRepository creates an achievement repository over the
// given database.
func NewMongoAchievementRepository(db *mongo.Database) repository.AchievementRepository {
	return &mongoAchievementRepository{
		catalog:  db.Collection(achievementCollectionName),
		unlocked: db.Collection(unlockedCollectionName),
	}
}

// SeedDefinitions upserts the catalog by key, leaving existing rows alone.
func (r *mongoAchievementRepository) SeedDefinitions(ctx context.Context, defs []domain.Achievement) error {
	for _, def := range defs {
		update := bson.M{
			"$setOnInsert": bson.M{
				"key":      def.Key,
				"name":     def.Name,
				"xpReward": def.XPReward,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.catalog.UpdateOne(ctx, bson.M{"key": def.Key}, update, opts); err != nil {
			return err
		}
	}
	return nil
}

// ListDefinitions returns the full achievement catalog.
func (r *mongoAchievementRepository) ListDefinitions(ctx context.Context) ([]domain.Achievement, error) {
	cursor, err := r.catalog.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []domain.Achievement
	if err = cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// ListUnlocked returns the user's unlock rows.
func (r *mongoAchievementRepository) ListUnlocked(ctx context.Context, userID primitive.ObjectID) ([]domain.UnlockedAchievement, error) {
	cursor, err := r.unlocked.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []domain.UnlockedAchievement
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertUnlocked records an unlock. The unique (userId, achievementId)
// index turns a re-run into ErrDuplicate instead of a second row.
func (r *mongoAchievementRepository) InsertUnlocked(ctx context.Context, userID, achievementID primitive.ObjectID) error {
	row := domain.UnlockedAchievement{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now().UTC(),
	}

	_, err := r.unlocked.InsertOne(ctx, row)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// EnsureAchievementIndexes creates indexes for both achievement collections.
func EnsureAchievementIndexes(ctx context.Context, catalog, unlocked *mongo.Collection) error {
	_, err := catalog.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = unlocked.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "achievementId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
