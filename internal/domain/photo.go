package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a photo a user uploaded. The actual
// image lives in object storage; clients upload via a presigned URL and
// confirm afterwards, which is when this row is written.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ObjectKey   string             `bson:"objectKey" json:"-"` // Bucket key, internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	TakenAt     time.Time          `bson:"takenAt" json:"takenAt"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
