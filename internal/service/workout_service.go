package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/guided"
	"pulsefit/fitness-tracker/internal/repository"
)

var (
	ErrPlanNotFound    = errors.New("workout plan not found")
	ErrDayNotFound     = errors.New("workout day not found in plan")
	ErrNotPlanOwner    = errors.New("plan does not belong to this user")
	ErrNothingToStart  = errors.New("workout day has no exercises")
	ErrInvalidDuration = errors.New("workout duration must be positive")
)

// WorkoutSummary is returned when a guided session finishes: the persisted
// log plus whatever progression earned. Progression is nil when the
// progression update failed; the workout itself is never lost over that.
type WorkoutSummary struct {
	Log         *domain.SessionLog `json:"log"`
	Progression *ProgressionResult `json:"progression,omitempty"`
}

// WorkoutService runs guided sessions and the workout log.
type WorkoutService interface {
	// StartGuided flattens the plan day and starts a guided session.
	StartGuided(ctx context.Context, userID primitive.ObjectID, planID primitive.ObjectID, dayID string) (guided.Snapshot, error)
	// StartGuidedAdHoc starts a guided session over an explicit exercise
	// list, outside any plan.
	StartGuidedAdHoc(ctx context.Context, userID primitive.ObjectID, exercises []domain.ExerciseRef) (guided.Snapshot, error)
	// Session returns the user's live guided session.
	Session(userID primitive.ObjectID) (*guided.Session, error)
	// FinishGuided completes the live session, persists its summary and
	// runs progression.
	FinishGuided(ctx context.Context, userID primitive.ObjectID) (*WorkoutSummary, error)

	// LogManual records a workout done off-app (no guided session).
	LogManual(ctx context.Context, userID primitive.ObjectID, minutes int, completedAt time.Time) (*WorkoutSummary, error)
	// History lists the user's completed workouts, most recent first.
	History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.SessionLog, error)
}

type workoutService struct {
	plans       repository.PlanRepository
	sessions    repository.SessionLogRepository
	progression ProgressionService
	manager     *guided.Manager
	restSeconds int

	// pending maps a user to the plan context of their live guided session,
	// carried into the log row when the session finishes.
	pending pendingSessions
}

// NewWorkoutService creates a workout service.
func NewWorkoutService(
	plans repository.PlanRepository,
	sessions repository.SessionLogRepository,
	progression ProgressionService,
	manager *guided.Manager,
	restSeconds int,
) WorkoutService {
	return &workoutService{
		plans:       plans,
		sessions:    sessions,
		progression: progression,
		manager:     manager,
		restSeconds: restSeconds,
		pending:     newPendingSessions(),
	}
}

// StartGuided flattens the plan day and hands it to the session manager.
func (s *workoutService) StartGuided(ctx context.Context, userID, planID primitive.ObjectID, dayID string) (guided.Snapshot, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return guided.Snapshot{}, ErrPlanNotFound
		}
		return guided.Snapshot{}, err
	}
	if plan.UserID != userID {
		return guided.Snapshot{}, ErrNotPlanOwner
	}

	day := plan.Day(dayID)
	if day == nil {
		return guided.Snapshot{}, ErrDayNotFound
	}
	exercises := day.Flatten()
	if len(exercises) == 0 {
		return guided.Snapshot{}, ErrNothingToStart
	}

	snap, err := s.start(userID, exercises)
	if err != nil {
		return guided.Snapshot{}, err
	}
	s.pending.set(userID, planID, dayID)
	return snap, nil
}

// StartGuidedAdHoc starts a session over an explicit exercise list.
func (s *workoutService) StartGuidedAdHoc(_ context.Context, userID primitive.ObjectID, exercises []domain.ExerciseRef) (guided.Snapshot, error) {
	if len(exercises) == 0 {
		return guided.Snapshot{}, ErrNothingToStart
	}
	return s.start(userID, exercises)
}

func (s *workoutService) start(userID primitive.ObjectID, exercises []domain.ExerciseRef) (guided.Snapshot, error) {
	key := userID.Hex()
	sess, err := s.manager.Start(key, exercises, guided.Config{RestSeconds: s.restSeconds}, guided.Callbacks{
		// A user abandoning the session just drops it; partial sessions are
		// not persisted.
		OnExit: func() { s.pending.clear(userID) },
	})
	if err != nil {
		return guided.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Session returns the user's live guided session.
func (s *workoutService) Session(userID primitive.ObjectID) (*guided.Session, error) {
	return s.manager.Get(userID.Hex())
}

// FinishGuided finalizes the live session, writes the log row and runs
// progression. A progression failure is logged and swallowed: the user
// still gets their workout summary.
func (s *workoutService) FinishGuided(ctx context.Context, userID primitive.ObjectID) (*WorkoutSummary, error) {
	sess, err := s.manager.Get(userID.Hex())
	if err != nil {
		return nil, err
	}

	summary, err := sess.Finish()
	if err != nil {
		return nil, err
	}

	minutes := summary.ElapsedSeconds / 60
	entry := &domain.SessionLog{
		UserID:               userID,
		Minutes:              minutes,
		CompletedExerciseIDs: summary.CompletedExerciseIDs,
		Guided:               true,
		CompletedAt:          time.Now(),
	}
	if planID, dayID, ok := s.pending.take(userID); ok {
		entry.PlanID = &planID
		entry.DayID = dayID
	}

	if _, err := s.sessions.Create(ctx, entry); err != nil {
		return nil, err
	}

	return s.summarize(ctx, userID, entry, minutes), nil
}

// LogManual records an off-app workout and runs progression on it.
func (s *workoutService) LogManual(ctx context.Context, userID primitive.ObjectID, minutes int, completedAt time.Time) (*WorkoutSummary, error) {
	if minutes <= 0 {
		return nil, ErrInvalidDuration
	}

	entry := &domain.SessionLog{
		UserID:      userID,
		Minutes:     minutes,
		CompletedAt: completedAt,
	}
	if _, err := s.sessions.Create(ctx, entry); err != nil {
		return nil, err
	}

	return s.summarize(ctx, userID, entry, minutes), nil
}

func (s *workoutService) summarize(ctx context.Context, userID primitive.ObjectID, entry *domain.SessionLog, minutes int) *WorkoutSummary {
	result, err := s.progression.ApplyCompletedWorkout(ctx, userID, minutes)
	if err != nil {
		logrus.WithError(err).WithField("userId", userID.Hex()).Error("progression update failed")
		return &WorkoutSummary{Log: entry}
	}
	return &WorkoutSummary{Log: entry, Progression: result}
}

// History lists the user's completed workouts.
func (s *workoutService) History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.SessionLog, error) {
	return s.sessions.GetByUserID(ctx, userID, limit)
}
