package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memAggregates struct {
	rows map[primitive.ObjectID]*domain.GamificationAggregate
}

func newMemAggregates() *memAggregates {
	return &memAggregates{rows: make(map[primitive.ObjectID]*domain.GamificationAggregate)}
}

func (m *memAggregates) GetAggregate(_ context.Context, userID primitive.ObjectID) (*domain.GamificationAggregate, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memAggregates) ApplyDelta(_ context.Context, userID primitive.ObjectID, delta repository.AggregateDelta) (*domain.GamificationAggregate, error) {
	row, ok := m.rows[userID]
	if !ok {
		row = &domain.GamificationAggregate{UserID: userID, Level: 1}
		m.rows[userID] = row
	}
	row.XP += delta.XP
	row.TotalWorkouts += delta.Workouts
	row.TotalMinutes += delta.Minutes
	if delta.StreakBest > row.StreakBest {
		row.StreakBest = delta.StreakBest
	}
	cp := *row
	return &cp, nil
}

func (m *memAggregates) SetLevel(_ context.Context, userID primitive.ObjectID, level int) error {
	row, ok := m.rows[userID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Level = level
	return nil
}

type memSessions struct {
	dates map[primitive.ObjectID][]time.Time
}

func newMemSessions() *memSessions {
	return &memSessions{dates: make(map[primitive.ObjectID][]time.Time)}
}

func (m *memSessions) Create(_ context.Context, entry *domain.SessionLog) (primitive.ObjectID, error) {
	m.dates[entry.UserID] = append([]time.Time{entry.CompletedAt}, m.dates[entry.UserID]...)
	return primitive.NewObjectID(), nil
}

func (m *memSessions) GetByUserID(_ context.Context, userID primitive.ObjectID, _ int64) ([]domain.SessionLog, error) {
	return nil, nil
}

func (m *memSessions) ListRecentDates(_ context.Context, userID primitive.ObjectID, _ int64) ([]time.Time, error) {
	return m.dates[userID], nil
}

type memAchievements struct {
	defs     []domain.Achievement
	unlocked map[primitive.ObjectID][]domain.UnlockedAchievement

	// When set, InsertUnlocked reports every insert as a duplicate, as if a
	// concurrent request won the race.
	forceDuplicate bool
}

func newMemAchievements() *memAchievements {
	defs := gamification.Catalog()
	for i := range defs {
		defs[i].ID = primitive.NewObjectID()
	}
	return &memAchievements{
		defs:     defs,
		unlocked: make(map[primitive.ObjectID][]domain.UnlockedAchievement),
	}
}

func (m *memAchievements) idFor(key domain.AchievementKey) primitive.ObjectID {
	for _, def := range m.defs {
		if def.Key == key {
			return def.ID
		}
	}
	return primitive.NilObjectID
}

func (m *memAchievements) preUnlock(userID primitive.ObjectID, keys ...domain.AchievementKey) {
	for _, key := range keys {
		m.unlocked[userID] = append(m.unlocked[userID], domain.UnlockedAchievement{
			UserID:        userID,
			AchievementID: m.idFor(key),
			UnlockedAt:    time.Now(),
		})
	}
}

func (m *memAchievements) SeedDefinitions(_ context.Context, _ []domain.Achievement) error {
	return nil
}

func (m *memAchievements) ListDefinitions(_ context.Context) ([]domain.Achievement, error) {
	return m.defs, nil
}

func (m *memAchievements) ListUnlocked(_ context.Context, userID primitive.ObjectID) ([]domain.UnlockedAchievement, error) {
	return m.unlocked[userID], nil
}

func (m *memAchievements) InsertUnlocked(_ context.Context, userID, achievementID primitive.ObjectID) error {
	if m.forceDuplicate {
		return repository.ErrDuplicate
	}
	for _, row := range m.unlocked[userID] {
		if row.AchievementID == achievementID {
			return repository.ErrDuplicate
		}
	}
	m.unlocked[userID] = append(m.unlocked[userID], domain.UnlockedAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	})
	return nil
}

type memGoals struct {
	goals map[primitive.ObjectID][]domain.Goal
}

func newMemGoals() *memGoals {
	return &memGoals{goals: make(map[primitive.ObjectID][]domain.Goal)}
}

func (m *memGoals) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	goal.ID = primitive.NewObjectID()
	m.goals[goal.UserID] = append(m.goals[goal.UserID], *goal)
	return goal.ID, nil
}

func (m *memGoals) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return m.goals[userID], nil
}

func (m *memGoals) Update(_ context.Context, _ *domain.Goal) error { return nil }

func (m *memGoals) MarkAchieved(_ context.Context, _, _ primitive.ObjectID, _ time.Time) error {
	return nil
}

func (m *memGoals) Delete(_ context.Context, _, _ primitive.ObjectID) error { return nil }

type progressionFixture struct {
	aggregates   *memAggregates
	sessions     *memSessions
	achievements *memAchievements
	goals        *memGoals
	clock        fixedClock
	svc          ProgressionService
	userID       primitive.ObjectID
}

func newProgressionFixture(t *testing.T) *progressionFixture {
	t.Helper()
	f := &progressionFixture{
		aggregates:   newMemAggregates(),
		sessions:     newMemSessions(),
		achievements: newMemAchievements(),
		goals:        newMemGoals(),
		clock:        fixedClock{now: time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)},
		userID:       primitive.NewObjectID(),
	}
	f.svc = NewProgressionService(f.aggregates, f.sessions, f.achievements, f.goals, f.clock)
	return f
}

func (f *progressionFixture) logSession(daysAgo int) {
	at := f.clock.now.AddDate(0, 0, -daysAgo)
	f.sessions.dates[f.userID] = append(f.sessions.dates[f.userID], at)
}

func unlockedKeys(result *ProgressionResult) []domain.AchievementKey {
	keys := make([]domain.AchievementKey, 0, len(result.UnlockedAchievements))
	for _, a := range result.UnlockedAchievements {
		keys = append(keys, a.Key)
	}
	return keys
}

func TestProgressionFirstWorkout(t *testing.T) {
	f := newProgressionFixture(t)
	f.logSession(0)

	result, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 12)
	require.NoError(t, err)

	assert.Equal(t, []domain.AchievementKey{domain.AchievementFirstWorkout}, unlockedKeys(result))
	assert.Equal(t, 70, result.XPGained, "12-minute workout is 20 XP plus the 50 XP first-workout reward")
	assert.Equal(t, 70, result.TotalXP)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.StreakBest)
}

func TestProgressionLevelUpFromWorkoutXP(t *testing.T) {
	f := newProgressionFixture(t)
	f.aggregates.rows[f.userID] = &domain.GamificationAggregate{
		UserID:        f.userID,
		XP:            90,
		Level:         1,
		TotalWorkouts: 3,
		TotalMinutes:  120,
		StreakBest:    1,
	}
	f.achievements.preUnlock(f.userID, domain.AchievementFirstWorkout)
	f.logSession(0)

	result, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 30)
	require.NoError(t, err)

	assert.Equal(t, 50, result.XPGained)
	assert.Equal(t, 140, result.TotalXP)
	assert.Equal(t, 2, result.Level)
	assert.True(t, result.LeveledUp)
	assert.Empty(t, result.UnlockedAchievements)

	agg, err := f.aggregates.GetAggregate(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Level, "level-up must be persisted")
	assert.Equal(t, 4, agg.TotalWorkouts)
	assert.Equal(t, 150, agg.TotalMinutes)
}

func TestProgressionAchievementRewardsPushLevelUp(t *testing.T) {
	f := newProgressionFixture(t)
	f.goals.goals[f.userID] = []domain.Goal{
		{UserID: f.userID, Title: "Bench 100kg", Achieved: true},
	}
	f.logSession(0)

	result, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 6)
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.AchievementKey{
		domain.AchievementFirstWorkout,
		domain.AchievementGoalSetter,
		domain.AchievementGoalAchieved,
	}, unlockedKeys(result))
	assert.Equal(t, 235, result.XPGained, "10 workout XP plus 50+25+150 in rewards")
	assert.Equal(t, 235, result.TotalXP)
	assert.Equal(t, 2, result.Level)
	assert.True(t, result.LeveledUp, "rewards alone pushed past the level 2 threshold")
}

func TestProgressionUnlockOncePerUser(t *testing.T) {
	f := newProgressionFixture(t)
	f.logSession(0)

	first, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 12)
	require.NoError(t, err)
	require.Len(t, first.UnlockedAchievements, 1)

	f.logSession(0)
	second, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 12)
	require.NoError(t, err)

	assert.Empty(t, second.UnlockedAchievements)
	assert.Equal(t, 20, second.XPGained, "no reward XP the second time")
	assert.Equal(t, 90, second.TotalXP)
	assert.Len(t, f.achievements.unlocked[f.userID], 1)
}

func TestProgressionAbsorbsConcurrentDuplicateUnlock(t *testing.T) {
	f := newProgressionFixture(t)
	f.achievements.forceDuplicate = true
	f.logSession(0)

	result, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 12)
	require.NoError(t, err)

	assert.Empty(t, result.UnlockedAchievements, "a lost insert race is not re-celebrated")
	assert.Equal(t, 20, result.XPGained, "no reward XP for an unlock someone else recorded")
}

func TestProgressionStreakBestKeepsMax(t *testing.T) {
	f := newProgressionFixture(t)
	f.aggregates.rows[f.userID] = &domain.GamificationAggregate{
		UserID:        f.userID,
		XP:            300,
		Level:         3,
		TotalWorkouts: 20,
		TotalMinutes:  400,
		StreakBest:    5,
	}
	f.achievements.preUnlock(f.userID,
		domain.AchievementFirstWorkout,
		domain.AchievementWorkouts10,
		domain.AchievementStreak3,
	)
	f.logSession(0)
	f.logSession(1)
	f.logSession(2)

	result, err := f.svc.ApplyCompletedWorkout(context.Background(), f.userID, 6)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 5, result.StreakBest, "a shorter current streak never lowers the best")
	assert.Equal(t, 310, result.TotalXP)
	assert.Equal(t, 3, result.Level)
	assert.False(t, result.LeveledUp)
	assert.Empty(t, result.UnlockedAchievements)
}

func TestRecentTrainingDaysWindow(t *testing.T) {
	f := newProgressionFixture(t)
	f.logSession(0)
	f.logSession(0) // a second workout the same day counts once
	f.logSession(3)
	f.logSession(29) // oldest day still inside a 30-day window
	f.logSession(30) // just outside
	f.logSession(45)

	days, err := f.svc.RecentTrainingDays(context.Background(), f.userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}

func TestRecentTrainingDaysForNewUser(t *testing.T) {
	f := newProgressionFixture(t)

	days, err := f.svc.RecentTrainingDays(context.Background(), f.userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestProgressionStatsForNewUser(t *testing.T) {
	f := newProgressionFixture(t)

	agg, streak, err := f.svc.Stats(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 0, agg.XP)
	assert.Equal(t, 1, agg.Level)
	assert.Equal(t, 0, streak)
}

func TestProgressionAchievementsListing(t *testing.T) {
	f := newProgressionFixture(t)
	f.achievements.preUnlock(f.userID, domain.AchievementFirstWorkout)

	statuses, err := f.svc.Achievements(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, statuses, len(gamification.Catalog()))

	unlockedCount := 0
	for _, s := range statuses {
		if s.Key == domain.AchievementFirstWorkout {
			assert.True(t, s.Unlocked)
			assert.NotNil(t, s.UnlockedAt)
		}
		if s.Unlocked {
			unlockedCount++
		}
	}
	assert.Equal(t, 1, unlockedCount)
}
