package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/repository"
)

// recentDatesWindow bounds the streak query; nobody's current streak needs
// more history than this.
const recentDatesWindow = 400

// ProgressionResult is what a completed workout earned the user, for the
// celebration UI.
type ProgressionResult struct {
	XPGained             int                  `json:"xpGained"`
	TotalXP              int                  `json:"totalXp"`
	Level                int                  `json:"level"`
	LeveledUp            bool                 `json:"leveledUp"`
	CurrentStreak        int                  `json:"currentStreak"`
	StreakBest           int                  `json:"streakBest"`
	UnlockedAchievements []domain.Achievement `json:"unlockedAchievements"`
}

// ProgressionService turns completed workouts into XP, levels, streaks and
// achievement unlocks.
type ProgressionService interface {
	// ApplyCompletedWorkout runs the full progression update for a workout
	// of the given length. The workout's session log must already be
	// written; its date participates in the streak.
	ApplyCompletedWorkout(ctx context.Context, userID primitive.ObjectID, minutes int) (*ProgressionResult, error)

	// Stats returns the aggregate plus the live streak for the stats screen.
	Stats(ctx context.Context, userID primitive.ObjectID) (*domain.GamificationAggregate, int, error)

	// RecentTrainingDays counts distinct calendar days with at least one
	// logged workout inside the trailing window of `window` days, today
	// included.
	RecentTrainingDays(ctx context.Context, userID primitive.ObjectID, window int) (int, error)

	// Achievements lists the catalog with the user's unlock state.
	Achievements(ctx context.Context, userID primitive.ObjectID) ([]AchievementStatus, error)
}

// AchievementStatus is a catalog row plus the user's unlock state.
type AchievementStatus struct {
	domain.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// Clock is the time source for day-boundary math. Injected so tests pin
// "today".
type Clock interface {
	Now() time.Time
}

type progressionService struct {
	aggregates   repository.GamificationRepository
	sessions     repository.SessionLogRepository
	achievements repository.AchievementRepository
	goals        repository.GoalRepository
	clock        Clock
}

// NewProgressionService creates the progression engine.
func NewProgressionService(
	aggregates repository.GamificationRepository,
	sessions repository.SessionLogRepository,
	achievements repository.AchievementRepository,
	goals repository.GoalRepository,
	clock Clock,
) ProgressionService {
	return &progressionService{
		aggregates:   aggregates,
		sessions:     sessions,
		achievements: achievements,
		goals:        goals,
		clock:        clock,
	}
}

// ApplyCompletedWorkout awards workout XP, recomputes the streak, evaluates
// achievements against the fresh aggregate and reports what to celebrate.
// A level-up can come from workout XP alone or be pushed over the line by
// achievement rewards; LeveledUp reflects the final level against the level
// before this whole update began.
func (s *progressionService) ApplyCompletedWorkout(ctx context.Context, userID primitive.ObjectID, minutes int) (*ProgressionResult, error) {
	previousLevel := 1
	if agg, err := s.aggregates.GetAggregate(ctx, userID); err == nil {
		previousLevel = agg.Level
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	streak, err := s.currentStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	workoutXP := gamification.XPForMinutes(minutes)
	agg, err := s.aggregates.ApplyDelta(ctx, userID, repository.AggregateDelta{
		XP:         workoutXP,
		Workouts:   1,
		Minutes:    minutes,
		StreakBest: streak,
	})
	if err != nil {
		return nil, err
	}

	unlocked, rewardXP, err := s.evaluateAchievements(ctx, userID, agg)
	if err != nil {
		return nil, err
	}
	if rewardXP > 0 {
		agg, err = s.aggregates.ApplyDelta(ctx, userID, repository.AggregateDelta{XP: rewardXP})
		if err != nil {
			return nil, err
		}
	}

	finalLevel := gamification.LevelForXP(agg.XP)
	if finalLevel != agg.Level {
		if err := s.aggregates.SetLevel(ctx, userID, finalLevel); err != nil {
			return nil, err
		}
	}

	return &ProgressionResult{
		XPGained:             workoutXP + rewardXP,
		TotalXP:              agg.XP,
		Level:                finalLevel,
		LeveledUp:            finalLevel > previousLevel,
		CurrentStreak:        streak,
		StreakBest:           agg.StreakBest,
		UnlockedAchievements: unlocked,
	}, nil
}

// currentStreak recomputes the consecutive-day count from the session log.
// Called after the workout's log row is written, so "today" is present.
func (s *progressionService) currentStreak(ctx context.Context, userID primitive.ObjectID) (int, error) {
	dates, err := s.sessions.ListRecentDates(ctx, userID, recentDatesWindow)
	if err != nil {
		return 0, err
	}
	days := gamification.DistinctDaysDesc(dates)
	return gamification.CurrentStreak(s.clock.Now(), days), nil
}

// RecentTrainingDays counts the distinct days trained in the trailing window.
func (s *progressionService) RecentTrainingDays(ctx context.Context, userID primitive.ObjectID, window int) (int, error) {
	dates, err := s.sessions.ListRecentDates(ctx, userID, recentDatesWindow)
	if err != nil {
		return 0, err
	}
	cutoff := gamification.Day(s.clock.Now()).AddDate(0, 0, -(window - 1))
	count := 0
	for _, day := range gamification.DistinctDaysDesc(dates) {
		if day.Before(cutoff) {
			break
		}
		count++
	}
	return count, nil
}

// evaluateAchievements checks every not-yet-unlocked achievement against the
// fresh aggregate, inserts unlock rows and sums their XP rewards. The
// already-unlocked set guarantees each predicate is evaluated at most once
// per user; a concurrent duplicate insert is absorbed, not double-awarded.
func (s *progressionService) evaluateAchievements(ctx context.Context, userID primitive.ObjectID, agg *domain.GamificationAggregate) ([]domain.Achievement, int, error) {
	defs, err := s.achievements.ListDefinitions(ctx)
	if err != nil {
		return nil, 0, err
	}
	unlockedRows, err := s.achievements.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	already := make(map[primitive.ObjectID]struct{}, len(unlockedRows))
	for _, row := range unlockedRows {
		already[row.AchievementID] = struct{}{}
	}

	snap, err := s.snapshot(ctx, userID, agg)
	if err != nil {
		return nil, 0, err
	}

	var newlyUnlocked []domain.Achievement
	rewardXP := 0
	for _, def := range defs {
		if _, ok := already[def.ID]; ok {
			continue
		}
		if !gamification.Qualifies(def.Key, snap) {
			continue
		}
		if err := s.achievements.InsertUnlocked(ctx, userID, def.ID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, 0, err
		}
		newlyUnlocked = append(newlyUnlocked, def)
		rewardXP += def.XPReward
		logrus.WithFields(logrus.Fields{
			"userId":      userID.Hex(),
			"achievement": def.Key,
		}).Info("achievement unlocked")
	}
	return newlyUnlocked, rewardXP, nil
}

func (s *progressionService) snapshot(ctx context.Context, userID primitive.ObjectID, agg *domain.GamificationAggregate) (gamification.StatsSnapshot, error) {
	goals, err := s.goals.GetByUserID(ctx, userID)
	if err != nil {
		return gamification.StatsSnapshot{}, err
	}
	snap := gamification.StatsSnapshot{
		TotalWorkouts: agg.TotalWorkouts,
		TotalMinutes:  agg.TotalMinutes,
		StreakBest:    agg.StreakBest,
	}
	for _, g := range goals {
		snap.HasAnyGoal = true
		if g.Achieved {
			snap.HasAchievedGoal = true
		}
	}
	return snap, nil
}

// Stats returns the aggregate (zero row if the user never trained) and the
// live current streak.
func (s *progressionService) Stats(ctx context.Context, userID primitive.ObjectID) (*domain.GamificationAggregate, int, error) {
	agg, err := s.aggregates.GetAggregate(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		agg = &domain.GamificationAggregate{UserID: userID, Level: 1}
	} else if err != nil {
		return nil, 0, err
	}

	streak, err := s.currentStreak(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return agg, streak, nil
}

// Achievements lists the catalog with unlock markers for the user.
func (s *progressionService) Achievements(ctx context.Context, userID primitive.ObjectID) ([]AchievementStatus, error) {
	defs, err := s.achievements.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	unlockedRows, err := s.achievements.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[primitive.ObjectID]time.Time, len(unlockedRows))
	for _, row := range unlockedRows {
		unlockedAt[row.AchievementID] = row.UnlockedAt
	}

	out := make([]AchievementStatus, 0, len(defs))
	for _, def := range defs {
		status := AchievementStatus{Achievement: def}
		if at, ok := unlockedAt[def.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = &at
		}
		out = append(out, status)
	}
	return out, nil
}
