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

const sessionLogCollectionName = "session_logs"

// mongoSessionLogRepository implements repository.SessionLogRepository.
type mongoSessionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionLogRepository creates a session-log repository over the
// given database.
func NewMongoSessionLogRepository(db *mongo.Database) repository.SessionLogRepository {
	return &mongoSessionLogRepository{
		collection: db.Collection(sessionLogCollectionName),
	}
}

// Create inserts a completed-workout record.
func (r *mongoSessionLogRepository) Create(ctx context.Context, entry *domain.SessionLog) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session log user ID is required")
	}

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = entry.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves the user's workout history, most recent first.
func (r *mongoSessionLogRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.SessionLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.SessionLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecentDates returns completion timestamps, most recent first. The
// streak computation deduplicates them to calendar days.
func (r *mongoSessionLogRepository) ListRecentDates(ctx context.Context, userID primitive.ObjectID, limit int64) ([]time.Time, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetProjection(bson.M{"completedAt": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		CompletedAt time.Time `bson:"completedAt"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.CompletedAt)
	}
	return dates, nil
}

// EnsureSessionLogIndexes creates necessary indexes for the session-log
// collection.
func EnsureSessionLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
