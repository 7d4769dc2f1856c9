package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a user-defined target, e.g. "Bench 100kg" or "Lose 5kg".
type Goal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	TargetDate  *time.Time         `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	Achieved    bool               `bson:"achieved" json:"achieved"`
	AchievedAt  *time.Time         `bson:"achievedAt,omitempty" json:"achievedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
