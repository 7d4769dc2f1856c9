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

const measurementCollectionName = "measurements"

// mongoMeasurementRepository implements repository.MeasurementRepository.
type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a measurement repository over the
// given database.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

// Create inserts a body-measurement entry.
func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	if m.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement user ID is required")
	}

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = m.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves a user's measurements, most recent first.
func (r *mongoMeasurementRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Measurement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "measuredAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.Measurement
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Latest retrieves the user's most recent measurement.
func (r *mongoMeasurementRepository) Latest(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "measuredAt", Value: -1}})

	var m domain.Measurement
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes a measurement, scoped to its owner.
func (r *mongoMeasurementRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMeasurementIndexes creates necessary indexes for the measurements
// collection.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "measuredAt", Value: -1}},
	})
	return err
}
