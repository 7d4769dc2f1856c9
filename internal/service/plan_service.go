package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/planner"
	"pulsefit/fitness-tracker/internal/repository"
)

var ErrPlannerNotConfigured = errors.New("ai planner is not configured")

// insightWindowDays is how far back the insight prompt looks when counting
// distinct training days.
const insightWindowDays = 30

// PlanService manages workout plans, including AI generation.
type PlanService interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Active(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	SetActive(ctx context.Context, userID, planID primitive.ObjectID) error
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error

	// Generate asks the AI gateway for a plan matching the user's profile
	// and stores it (inactive; the user activates it explicitly).
	Generate(ctx context.Context, user *domain.User, req planner.PlanRequest) (*domain.WorkoutPlan, error)

	// Insight asks the AI gateway for a short text about recent training.
	Insight(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type planService struct {
	plans       repository.PlanRepository
	progression ProgressionService
	generator   planner.PlanGenerator
	insights    planner.InsightGenerator
}

// NewPlanService creates a plan service. generator and insights may be nil
// when no AI gateway is configured; the AI operations then fail cleanly.
func NewPlanService(plans repository.PlanRepository, progression ProgressionService, generator planner.PlanGenerator, insights planner.InsightGenerator) PlanService {
	return &planService{
		plans:       plans,
		progression: progression,
		generator:   generator,
		insights:    insights,
	}
}

// Create validates, assigns day/exercise IDs where missing and stores the
// plan.
func (s *planService) Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if plan.Name == "" {
		return nil, errors.New("plan name is required")
	}
	assignPlanIDs(plan)

	id, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// assignPlanIDs gives every day and exercise a stable identifier. Exercise
// IDs are what completed-exercise tracking keys on, so they must exist and
// be unique within the day.
func assignPlanIDs(plan *domain.WorkoutPlan) {
	for di := range plan.Days {
		day := &plan.Days[di]
		if day.ID == "" {
			day.ID = uuid.NewString()
		}
		if day.Sequence == 0 {
			day.Sequence = di + 1
		}
		seen := make(map[string]bool)
		for bi := range day.Blocks {
			for ei := range day.Blocks[bi].Exercises {
				ex := &day.Blocks[bi].Exercises[ei]
				if ex.ID == "" || seen[ex.ID] {
					ex.ID = uuid.NewString()
				}
				seen[ex.ID] = true
			}
		}
	}
}

// Get fetches one plan, enforcing ownership.
func (s *planService) Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	return plan, nil
}

// List returns all of the user's plans.
func (s *planService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.plans.GetByUserID(ctx, userID)
}

// Active returns the user's active plan.
func (s *planService) Active(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.plans.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	return plan, err
}

// Update stores edits to a plan's name, description or days.
func (s *planService) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	assignPlanIDs(plan)
	err := s.plans.Update(ctx, plan)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// SetActive switches the user's active plan.
func (s *planService) SetActive(ctx context.Context, userID, planID primitive.ObjectID) error {
	err := s.plans.SetActive(ctx, userID, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// Delete removes a plan.
func (s *planService) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	err := s.plans.Delete(ctx, planID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// Generate calls the AI gateway and stores the result for the user.
func (s *planService) Generate(ctx context.Context, user *domain.User, req planner.PlanRequest) (*domain.WorkoutPlan, error) {
	if s.generator == nil {
		return nil, ErrPlannerNotConfigured
	}

	if req.FitnessGoal == "" {
		req.FitnessGoal = user.FitnessGoal
	}
	if req.HeightCm == 0 {
		req.HeightCm = user.HeightCm
	}
	if req.BirthYear == 0 {
		req.BirthYear = user.BirthYear
	}

	plan, err := s.generator.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}
	plan.UserID = user.ID
	if plan.Name == "" {
		plan.Name = fmt.Sprintf("Generated plan (%s)", req.FitnessGoal)
	}

	logrus.WithFields(logrus.Fields{
		"userId": user.ID.Hex(),
		"days":   len(plan.Days),
	}).Info("ai plan generated")

	return s.Create(ctx, plan)
}

// Insight feeds current stats to the gateway and returns its text.
func (s *planService) Insight(ctx context.Context, userID primitive.ObjectID) (string, error) {
	if s.insights == nil {
		return "", ErrPlannerNotConfigured
	}

	agg, streak, err := s.progression.Stats(ctx, userID)
	if err != nil {
		return "", err
	}
	recentDays, err := s.progression.RecentTrainingDays(ctx, userID, insightWindowDays)
	if err != nil {
		return "", err
	}
	return s.insights.GenerateInsight(ctx, planner.InsightRequest{
		TotalWorkouts: agg.TotalWorkouts,
		TotalMinutes:  agg.TotalMinutes,
		CurrentStreak: streak,
		Level:         gamification.LevelForXP(agg.XP),
		RecentDays:    recentDays,
	})
}
