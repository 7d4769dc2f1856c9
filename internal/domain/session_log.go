package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionLog records one completed workout. Guided sessions and manually
// logged workouts both end up here; only the final summary is persisted,
// never in-flight session state.
type SessionLog struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID               *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	DayID                string              `bson:"dayId,omitempty" json:"dayId,omitempty"`
	Minutes              int                 `bson:"minutes" json:"minutes"`
	CompletedExerciseIDs []string            `bson:"completedExerciseIds,omitempty" json:"completedExerciseIds,omitempty"`
	Guided               bool                `bson:"guided" json:"guided"`
	CompletedAt          time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt            time.Time           `bson:"createdAt" json:"createdAt"`
}
