// Package planner is the client-side boundary to the hosted AI gateway that
// generates workout plans and textual insights. The gateway itself (and the
// LLM behind it) is an external collaborator; this package only defines the
// ports and a thin HTTP client.
package planner

import (
	"context"
	"errors"

	"pulsefit/fitness-tracker/internal/domain"
)

var ErrUnavailable = errors.New("planner: gateway unavailable")

// PlanRequest captures the profile facts the gateway works from.
type PlanRequest struct {
	FitnessGoal   string  `json:"fitnessGoal"`
	DaysPerWeek   int     `json:"daysPerWeek"`
	Experience    string  `json:"experience"` // "beginner", "intermediate", "advanced"
	HeightCm      float64 `json:"heightCm,omitempty"`
	WeightKg      float64 `json:"weightKg,omitempty"`
	BirthYear     int     `json:"birthYear,omitempty"`
	EquipmentNote string  `json:"equipmentNote,omitempty"`
}

// InsightRequest asks the gateway for a short textual read on recent
// training activity.
type InsightRequest struct {
	TotalWorkouts int `json:"totalWorkouts"`
	TotalMinutes  int `json:"totalMinutes"`
	CurrentStreak int `json:"currentStreak"`
	Level         int `json:"level"`
	RecentDays    int `json:"recentDays"` // distinct training days in the last 30
}

// PlanGenerator produces a full workout plan (days, blocks, exercises).
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*domain.WorkoutPlan, error)
}

// InsightGenerator produces a short motivational/analytical text blurb.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, req InsightRequest) (string, error)
}
