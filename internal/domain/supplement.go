package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplement is one entry in a user's supplement regimen.
type Supplement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Dosage    string             `bson:"dosage,omitempty" json:"dosage,omitempty"`     // e.g. "5g", "2 capsules"
	Schedule  string             `bson:"schedule,omitempty" json:"schedule,omitempty"` // e.g. "daily", "training days"
	TimeOfDay string             `bson:"timeOfDay,omitempty" json:"timeOfDay,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SupplementIntake marks a supplement as taken on a calendar day. Day is
// stored as "2006-01-02" in the user's local timezone, one row per
// (supplement, day); toggling off deletes the row.
type SupplementIntake struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	SupplementID primitive.ObjectID `bson:"supplementId" json:"supplementId"`
	Day          string             `bson:"day" json:"day"`
	TakenAt      time.Time          `bson:"takenAt" json:"takenAt"`
}
