package gamification

import "pulsefit/fitness-tracker/internal/domain"

// StatsSnapshot is the input to achievement criteria: the user's aggregate
// stats right after the current workout has been applied.
type StatsSnapshot struct {
	TotalWorkouts   int
	TotalMinutes    int
	StreakBest      int
	HasAnyGoal      bool
	HasAchievedGoal bool
}

// criteria maps each achievement key to its unlock predicate. Predicates are
// evaluated at most once per user per achievement; the already-unlocked set
// guards re-evaluation.
var criteria = map[domain.AchievementKey]func(StatsSnapshot) bool{
	domain.AchievementFirstWorkout: func(s StatsSnapshot) bool { return s.TotalWorkouts >= 1 },
	domain.AchievementWorkouts10:   func(s StatsSnapshot) bool { return s.TotalWorkouts >= 10 },
	domain.AchievementWorkouts50:   func(s StatsSnapshot) bool { return s.TotalWorkouts >= 50 },
	domain.AchievementWorkouts100:  func(s StatsSnapshot) bool { return s.TotalWorkouts >= 100 },
	domain.AchievementStreak3:      func(s StatsSnapshot) bool { return s.StreakBest >= 3 },
	domain.AchievementStreak7:      func(s StatsSnapshot) bool { return s.StreakBest >= 7 },
	domain.AchievementStreak30:     func(s StatsSnapshot) bool { return s.StreakBest >= 30 },
	domain.AchievementMinutes500:   func(s StatsSnapshot) bool { return s.TotalMinutes >= 500 },
	domain.AchievementMinutes1000:  func(s StatsSnapshot) bool { return s.TotalMinutes >= 1000 },
	domain.AchievementGoalSetter:   func(s StatsSnapshot) bool { return s.HasAnyGoal },
	domain.AchievementGoalAchieved: func(s StatsSnapshot) bool { return s.HasAchievedGoal },
}

// Qualifies reports whether the snapshot satisfies the criterion for key.
// Unknown keys never qualify, so a stale catalog row cannot unlock anything.
func Qualifies(key domain.AchievementKey, s StatsSnapshot) bool {
	pred, ok := criteria[key]
	if !ok {
		return false
	}
	return pred(s)
}

// Catalog returns the seed data for the achievements collection.
func Catalog() []domain.Achievement {
	return []domain.Achievement{
		{Key: domain.AchievementFirstWorkout, Name: "First Workout", XPReward: 50},
		{Key: domain.AchievementWorkouts10, Name: "10 Workouts", XPReward: 100},
		{Key: domain.AchievementWorkouts50, Name: "50 Workouts", XPReward: 250},
		{Key: domain.AchievementWorkouts100, Name: "Centurion", XPReward: 500},
		{Key: domain.AchievementStreak3, Name: "3-Day Streak", XPReward: 50},
		{Key: domain.AchievementStreak7, Name: "One Full Week", XPReward: 150},
		{Key: domain.AchievementStreak30, Name: "30-Day Streak", XPReward: 500},
		{Key: domain.AchievementMinutes500, Name: "500 Minutes", XPReward: 100},
		{Key: domain.AchievementMinutes1000, Name: "1000 Minutes", XPReward: 250},
		{Key: domain.AchievementGoalSetter, Name: "Goal Setter", XPReward: 25},
		{Key: domain.AchievementGoalAchieved, Name: "Goal Crusher", XPReward: 150},
	}
}
