package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseRef is one exercise occurrence inside a workout day. Sets and reps
// are free-form strings because plans routinely mix counts with durations
// ("3", "60seg", "to failure"); the app never does arithmetic on them.
type ExerciseRef struct {
	ID       string `bson:"id" json:"id"` // Unique within the workout day
	Name     string `bson:"name" json:"name"`
	Sets     string `bson:"sets" json:"sets"`
	Reps     string `bson:"reps" json:"reps"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
}

// ExerciseBlock groups exercises within a day, e.g. "Warm-up" or "Main sets".
// Block order and exercise order are both significant.
type ExerciseBlock struct {
	Name      string        `bson:"name" json:"name"`
	Exercises []ExerciseRef `bson:"exercises" json:"exercises"`
}

// WorkoutDay is one day of a plan: an ordered sequence of blocks.
type WorkoutDay struct {
	ID        string          `bson:"id" json:"id"` // Unique within the plan
	Name      string          `bson:"name" json:"name"`
	DayOfWeek *int            `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 1 (Mon) - 7 (Sun)
	Sequence  int             `bson:"sequence" json:"sequence"`
	Blocks    []ExerciseBlock `bson:"blocks" json:"blocks"`
}

// WorkoutPlan is a user's training plan. Plans embed their days and
// exercises; there is no shared exercise library to join against.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"` // At most one active plan per user
	Generated   bool               `bson:"generated" json:"generated"` // Produced by the AI planner
	Days        []WorkoutDay       `bson:"days" json:"days"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the day with the given ID, or nil.
func (p *WorkoutPlan) Day(dayID string) *WorkoutDay {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			return &p.Days[i]
		}
	}
	return nil
}

// Flatten returns the day's exercises as a single ordered list, block by
// block. This is the input shape the guided session works with.
func (d *WorkoutDay) Flatten() []ExerciseRef {
	var out []ExerciseRef
	for _, block := range d.Blocks {
		out = append(out, block.Exercises...)
	}
	return out
}
