package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
	"pulsefit/fitness-tracker/internal/storage"
)

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrNotPhotoOwner      = errors.New("photo does not belong to this user")
	ErrInvalidContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// UploadURLResponse carries the presigned URL and the object key the client
// must report back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// PhotoView is photo metadata enriched with a temporary download URL.
type PhotoView struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// PhotoService runs the progress-photo upload flow: request a presigned
// URL, upload directly to object storage, confirm, list with download URLs.
type PhotoService interface {
	RequestUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64, takenAt time.Time, notes string) (*domain.ProgressPhoto, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]PhotoView, error)
	Delete(ctx context.Context, userID, photoID primitive.ObjectID) error
}

type photoService struct {
	photos      repository.PhotoRepository
	fileStorage storage.FileStorage
}

// NewPhotoService creates a photo service.
func NewPhotoService(photos repository.PhotoRepository, fileStorage storage.FileStorage) PhotoService {
	return &photoService{
		photos:      photos,
		fileStorage: fileStorage,
	}
}

// RequestUploadURL generates a presigned PUT URL for an image upload. The
// object key namespaces by user, so a confirm for someone else's key is
// rejected cheaply.
func (s *photoService) RequestUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join("photos", userID.Hex(), uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{UploadURL: url, ObjectKey: objectKey}, nil
}

// ConfirmUpload records metadata once the client finished the PUT.
func (s *photoService) ConfirmUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64, takenAt time.Time, notes string) (*domain.ProgressPhoto, error) {
	if !strings.HasPrefix(objectKey, path.Join("photos", userID.Hex())+"/") {
		return nil, ErrNotPhotoOwner
	}

	photo := &domain.ProgressPhoto{
		UserID:      userID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		TakenAt:     takenAt,
		Notes:       notes,
	}
	id, err := s.photos.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = id
	return photo, nil
}

// List returns the user's photos with temporary download URLs.
func (s *photoService) List(ctx context.Context, userID primitive.ObjectID) ([]PhotoView, error) {
	photos, err := s.photos.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDownloadURLError, photo.ID.Hex())
		}
		views = append(views, PhotoView{ProgressPhoto: photo, DownloadURL: url})
	}
	return views, nil
}

// Delete removes the stored object first, then the metadata row. A dangling
// row with a missing object is worse than a dangling object.
func (s *photoService) Delete(ctx context.Context, userID, photoID primitive.ObjectID) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.UserID != userID {
		return ErrNotPhotoOwner
	}

	if err := s.fileStorage.DeleteObject(ctx, photo.ObjectKey); err != nil {
		return err
	}
	return s.photos.Delete(ctx, photoID, userID)
}
