package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/repository"
)

var (
	ErrGoalNotFound        = errors.New("goal not found")
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrSupplementNotFound  = errors.New("supplement not found")
)

// TrackingService covers the plain tracking features: body measurements,
// goals and the supplement regimen.
type TrackingService interface {
	AddMeasurement(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error)
	Measurements(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Measurement, error)
	LatestMeasurement(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error)
	DeleteMeasurement(ctx context.Context, userID, id primitive.ObjectID) error

	AddGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	Goals(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, goal *domain.Goal) error
	AchieveGoal(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteGoal(ctx context.Context, userID, id primitive.ObjectID) error

	AddSupplement(ctx context.Context, s *domain.Supplement) (*domain.Supplement, error)
	Supplements(ctx context.Context, userID primitive.ObjectID) ([]domain.Supplement, error)
	UpdateSupplement(ctx context.Context, s *domain.Supplement) error
	DeleteSupplement(ctx context.Context, userID, id primitive.ObjectID) error
	// SetIntake marks or clears "taken today" for a supplement.
	SetIntake(ctx context.Context, userID, supplementID primitive.ObjectID, taken bool) error
	// TodaysIntake returns the supplement IDs marked taken today.
	TodaysIntake(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type trackingService struct {
	measurements repository.MeasurementRepository
	goals        repository.GoalRepository
	supplements  repository.SupplementRepository
	clock        Clock
}

// NewTrackingService creates a tracking service.
func NewTrackingService(
	measurements repository.MeasurementRepository,
	goals repository.GoalRepository,
	supplements repository.SupplementRepository,
	clock Clock,
) TrackingService {
	return &trackingService{
		measurements: measurements,
		goals:        goals,
		supplements:  supplements,
		clock:        clock,
	}
}

// --- measurements ---

func (s *trackingService) AddMeasurement(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error) {
	if m.WeightKg <= 0 {
		return nil, errors.New("weight must be positive")
	}
	id, err := s.measurements.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (s *trackingService) Measurements(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Measurement, error) {
	return s.measurements.GetByUserID(ctx, userID, limit)
}

func (s *trackingService) LatestMeasurement(ctx context.Context, userID primitive.ObjectID) (*domain.Measurement, error) {
	m, err := s.measurements.Latest(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMeasurementNotFound
	}
	return m, err
}

func (s *trackingService) DeleteMeasurement(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.measurements.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMeasurementNotFound
	}
	return err
}

// --- goals ---

func (s *trackingService) AddGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	id, err := s.goals.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = id
	return goal, nil
}

func (s *trackingService) Goals(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return s.goals.GetByUserID(ctx, userID)
}

func (s *trackingService) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	err := s.goals.Update(ctx, goal)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

// AchieveGoal marks the goal achieved. The goal_achieved achievement is
// picked up on the next completed workout, when predicates re-run.
func (s *trackingService) AchieveGoal(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.goals.MarkAchieved(ctx, id, userID, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

func (s *trackingService) DeleteGoal(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.goals.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

// --- supplements ---

func (s *trackingService) AddSupplement(ctx context.Context, sup *domain.Supplement) (*domain.Supplement, error) {
	id, err := s.supplements.Create(ctx, sup)
	if err != nil {
		return nil, err
	}
	sup.ID = id
	return sup, nil
}

func (s *trackingService) Supplements(ctx context.Context, userID primitive.ObjectID) ([]domain.Supplement, error) {
	return s.supplements.GetByUserID(ctx, userID)
}

func (s *trackingService) UpdateSupplement(ctx context.Context, sup *domain.Supplement) error {
	err := s.supplements.Update(ctx, sup)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSupplementNotFound
	}
	return err
}

func (s *trackingService) DeleteSupplement(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.supplements.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSupplementNotFound
	}
	return err
}

func (s *trackingService) SetIntake(ctx context.Context, userID, supplementID primitive.ObjectID, taken bool) error {
	day := s.today()
	if !taken {
		return s.supplements.ClearIntake(ctx, userID, supplementID, day)
	}
	return s.supplements.MarkIntake(ctx, &domain.SupplementIntake{
		UserID:       userID,
		SupplementID: supplementID,
		Day:          day,
		TakenAt:      s.clock.Now(),
	})
}

func (s *trackingService) TodaysIntake(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rows, err := s.supplements.ListIntake(ctx, userID, s.today())
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SupplementID)
	}
	return ids, nil
}

func (s *trackingService) today() string {
	return gamification.Day(s.clock.Now()).Format(time.DateOnly)
}
