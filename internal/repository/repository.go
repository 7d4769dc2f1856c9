package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, heightCm float64, birthYear int, fitnessGoal string) error
}

// PlanRepository defines the interface for interacting with workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	// SetActive marks the plan active and clears the flag on the user's
	// other plans, so at most one is active at a time.
	SetActive(ctx context.Context, userID, planID primitive.ObjectID) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// SessionLogRepository defines the interface for interacting with completed
// workout records.
type SessionLogRepository interface {
	Create(ctx context.Context, entry *domain.SessionLog) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.SessionLog, error)
	// ListRecentDates returns completion timestamps, most recent first.
	// Feeds the streak computation.
	ListRecentDates(ctx context.Context, userID primitive.ObjectID, limit int64) ([]time.Time, error)
}

// AggregateDelta is applied atomically to a user's gamification row: the
// int fields are increments, StreakBest updates via max.
type AggregateDelta struct {
	XP         int
	Workouts   int
	Minutes    int
	StreakBest int
}

// GamificationRepository defines the interface for the per-user progression
// aggregate.
type GamificationRepository interface {
	GetAggregate(ctx context.Context, userID primitive.ObjectID) (*domain.GamificationAggregate, error)
	// ApplyDelta upserts and atomically applies the delta, returning the
	// post-update aggregate. There is deliberately no plain read-modify-
	// write update: concurrent completions from several devices must not
	// lose increments.
	ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta AggregateDelta) (*domain.GamificationAggregate, error)
	SetLevel(ctx context.Context, userID primitive.ObjectID, level int) error
}

// AchievementRepository defines the interface for the achievement catalog
// and per-user unlocks.
type AchievementRepository interface {
	// SeedDefinitions inserts missing catalog rows; existing keys are left
	// untouched. Run at startup.
	SeedDefinitions(ctx context.Context, defs []domain.Achievement) error
	ListDefinitions(ctx context.Context) ([]domain.Achievement, error)
	ListUnlocked(ctx context.Context, userID primitive.ObjectID) ([]domain.UnlockedAchievement, error)
	// InsertUnlocked records an unlock. Returns ErrDuplicate when the user
	// already holds the achievement; the unique index makes this safe to
	// retry.
	InsertUnlocked(ctx context.Context, userID, achievementID primitive.ObjectID) error
}

// GoalRepository defines the interface for user goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	MarkAchieved(ctx context.Context, id, userID primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// MeasurementRepository defines the interface for body measurements.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Measurement, error)
	Latest(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// PhotoRepository defines the interface for progress-photo metadata. The
// image bytes live in object storage.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// SupplementRepository defines the interface for the supplement regimen and
// its daily intake log.
type SupplementRepository interface {
	Create(ctx context.Context, s *domain.Supplement) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Supplement, error)
	Update(ctx context.Context, s *domain.Supplement) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error

	MarkIntake(ctx context.Context, intake *domain.SupplementIntake) error
	ClearIntake(ctx context.Context, userID, supplementID primitive.ObjectID, day string) error
	ListIntake(ctx context.Context, userID primitive.ObjectID, day string) ([]domain.SupplementIntake, error)
}
