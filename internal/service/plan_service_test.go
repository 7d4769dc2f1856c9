package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/planner"
)

// stubProgression serves canned stats to the insight prompt builder.
type stubProgression struct {
	agg        domain.GamificationAggregate
	streak     int
	recentDays int
}

func (s *stubProgression) ApplyCompletedWorkout(context.Context, primitive.ObjectID, int) (*ProgressionResult, error) {
	return nil, nil
}

func (s *stubProgression) Stats(context.Context, primitive.ObjectID) (*domain.GamificationAggregate, int, error) {
	agg := s.agg
	return &agg, s.streak, nil
}

func (s *stubProgression) RecentTrainingDays(context.Context, primitive.ObjectID, int) (int, error) {
	return s.recentDays, nil
}

func (s *stubProgression) Achievements(context.Context, primitive.ObjectID) ([]AchievementStatus, error) {
	return nil, nil
}

// captureInsights records the request the service builds for the gateway.
type captureInsights struct {
	req planner.InsightRequest
}

func (c *captureInsights) GenerateInsight(_ context.Context, req planner.InsightRequest) (string, error) {
	c.req = req
	return "keep showing up", nil
}

func TestInsightPromptCarriesTrainingStats(t *testing.T) {
	prog := &stubProgression{
		agg:        domain.GamificationAggregate{XP: 300, TotalWorkouts: 14, TotalMinutes: 420},
		streak:     4,
		recentDays: 9,
	}
	capture := &captureInsights{}
	svc := NewPlanService(nil, prog, nil, capture)

	text, err := svc.Insight(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, "keep showing up", text)

	assert.Equal(t, 14, capture.req.TotalWorkouts)
	assert.Equal(t, 420, capture.req.TotalMinutes)
	assert.Equal(t, 4, capture.req.CurrentStreak)
	assert.Equal(t, 3, capture.req.Level)
	assert.Equal(t, 9, capture.req.RecentDays)
}

func TestInsightWithoutGateway(t *testing.T) {
	svc := NewPlanService(nil, &stubProgression{}, nil, nil)

	_, err := svc.Insight(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlannerNotConfigured)
}
