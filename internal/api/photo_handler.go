package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/service"
)

// PhotoHandler drives the progress-photo upload flow.
type PhotoHandler struct {
	photoService service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string     `json:"objectKey" binding:"required"`
	FileName    string     `json:"fileName" binding:"required"`
	ContentType string     `json:"contentType" binding:"required"`
	Size        int64      `json:"size" binding:"required,gt=0"`
	TakenAt     *time.Time `json:"takenAt"`
	Notes       string     `json:"notes"`
}

// RequestUploadURL returns a presigned PUT URL; the client uploads the image
// bytes directly to object storage.
func (h *PhotoHandler) RequestUploadURL(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.photoService.RequestUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload records photo metadata after a successful direct upload.
func (h *PhotoHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	takenAt := time.Now()
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}

	photo, err := h.photoService.ConfirmUpload(c.Request.Context(), userID, req.ObjectKey, req.FileName, req.ContentType, req.Size, takenAt, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrNotPhotoOwner) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record photo")
		}
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// GetPhotos lists the user's photos with temporary download URLs.
func (h *PhotoHandler) GetPhotos(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	photos, err := h.photoService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}
	if photos == nil {
		photos = []service.PhotoView{}
	}
	c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes a photo and its stored object.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	photoID, ok := parsePathID(c, "photoId")
	if !ok {
		return
	}

	if err := h.photoService.Delete(c.Request.Context(), userID, photoID); err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotPhotoOwner):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete photo")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
