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

const (
	supplementCollectionName = "supplements"
	intakeCollectionName     = "supplement_intake"
)

// mongoSupplementRepository implements repository.SupplementRepository over
// the regimen collection and the daily intake log.
type mongoSupplementRepository struct {
	regimen *mongo.Collection
	intake  *mongo.Collection
}

// NewMongoSupplementRepository creates a supplement repository over the
// given database.
func NewMongoSupplementRepository(db *mongo.Database) repository.SupplementRepository {
	return &mongoSupplementRepository{
		regimen: db.Collection(supplementCollectionName),
		intake:  db.Collection(intakeCollectionName),
	}
}

// Create inserts a regimen entry.
func (r *mongoSupplementRepository) Create(ctx context.Context, s *domain.Supplement) (primitive.ObjectID, error) {
	if s.UserID == primitive.NilObjectID || s.Name == "" {
		return primitive.NilObjectID, errors.New("supplement user ID and name are required")
	}

	s.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	result, err := r.regimen.InsertOne(ctx, s)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves a user's regimen.
func (r *mongoSupplementRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Supplement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.regimen.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var supplements []domain.Supplement
	if err = cursor.All(ctx, &supplements); err != nil {
		return nil, err
	}
	return supplements, nil
}

// Update replaces a regimen entry's editable fields.
func (r *mongoSupplementRepository) Update(ctx context.Context, s *domain.Supplement) error {
	update := bson.M{
		"$set": bson.M{
			"name":      s.Name,
			"dosage":    s.Dosage,
			"schedule":  s.Schedule,
			"timeOfDay": s.TimeOfDay,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.regimen.UpdateOne(ctx, bson.M{"_id": s.ID, "userId": s.UserID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a regimen entry and its intake history.
func (r *mongoSupplementRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.regimen.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	_, err = r.intake.DeleteMany(ctx, bson.M{"supplementId": id, "userId": userID})
	return err
}

// MarkIntake records the supplement as taken for a day. Upserted on the
// (user, supplement, day) triple, so double-taps stay a single row.
func (r *mongoSupplementRepository) MarkIntake(ctx context.Context, intake *domain.SupplementIntake) error {
	filter := bson.M{
		"userId":       intake.UserID,
		"supplementId": intake.SupplementID,
		"day":          intake.Day,
	}
	update := bson.M{
		"$setOnInsert": bson.M{"takenAt": time.Now().UTC()},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.intake.UpdateOne(ctx, filter, update, opts)
	return err
}

// ClearIntake removes the taken marker for a day.
func (r *mongoSupplementRepository) ClearIntake(ctx context.Context, userID, supplementID primitive.ObjectID, day string) error {
	_, err := r.intake.DeleteOne(ctx, bson.M{
		"userId":       userID,
		"supplementId": supplementID,
		"day":          day,
	})
	return err
}

// ListIntake returns the intake rows for one calendar day.
func (r *mongoSupplementRepository) ListIntake(ctx context.Context, userID primitive.ObjectID, day string) ([]domain.SupplementIntake, error) {
	cursor, err := r.intake.Find(ctx, bson.M{"userId": userID, "day": day})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []domain.SupplementIntake
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// EnsureSupplementIndexes creates indexes for both supplement collections.
func EnsureSupplementIndexes(ctx context.Context, regimen, intake *mongo.Collection) error {
	_, err := regimen.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = intake.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "supplementId", Value: 1},
			{Key: "day", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
