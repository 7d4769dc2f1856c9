package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Everyone is a regular consumer;
// there is no trainer/client split in this product.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Optional profile data used by the AI plan generator.
	HeightCm    float64 `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	BirthYear   int     `bson:"birthYear,omitempty" json:"birthYear,omitempty"`
	FitnessGoal string  `bson:"fitnessGoal,omitempty" json:"fitnessGoal,omitempty"` // e.g. "hypertrophy", "fat loss"
}
