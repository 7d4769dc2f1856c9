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

const photoCollectionName = "progress_photos"

// mongoPhotoRepository implements repository.PhotoRepository using MongoDB.
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a photo-metadata repository over the given
// database.
func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts photo metadata after a confirmed upload.
func (r *mongoPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.UserID == primitive.NilObjectID || photo.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("photo user ID and object key are required")
	}

	photo.ID = primitive.NewObjectID()
	photo.UploadedAt = time.Now().UTC()
	if photo.TakenAt.IsZero() {
		photo.TakenAt = photo.UploadedAt
	}

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves photo metadata by its ObjectID.
func (r *mongoPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// GetByUserID retrieves all of a user's photos, most recent first.
func (r *mongoPhotoRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	opts := options.Find().SetSort(bson.D{{Key: "takenAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []domain.ProgressPhoto
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Delete removes photo metadata, scoped to its owner. Callers delete the
// stored object first.
func (r *mongoPhotoRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePhotoIndexes creates necessary indexes for the photos collection.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "takenAt", Value: -1}},
	})
	return err
}
