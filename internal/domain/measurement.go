package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is one body-measurement entry. All fields besides weight are
// optional; zero means "not measured" and is omitted from storage.
type Measurement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	MeasuredAt time.Time          `bson:"measuredAt" json:"measuredAt"`
	WeightKg   float64            `bson:"weightKg" json:"weightKg"`
	BodyFatPct float64            `bson:"bodyFatPct,omitempty" json:"bodyFatPct,omitempty"`
	ChestCm    float64            `bson:"chestCm,omitempty" json:"chestCm,omitempty"`
	WaistCm    float64            `bson:"waistCm,omitempty" json:"waistCm,omitempty"`
	HipsCm     float64            `bson:"hipsCm,omitempty" json:"hipsCm,omitempty"`
	ArmsCm     float64            `bson:"armsCm,omitempty" json:"armsCm,omitempty"`
	ThighsCm   float64            `bson:"thighsCm,omitempty" json:"thighsCm,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
