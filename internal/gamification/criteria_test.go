package gamification

import (
	"testing"

	"pulsefit/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestQualifies(t *testing.T) {
	fresh := StatsSnapshot{TotalWorkouts: 1, TotalMinutes: 30, StreakBest: 1}
	assert.True(t, Qualifies(domain.AchievementFirstWorkout, fresh))
	assert.False(t, Qualifies(domain.AchievementWorkouts10, fresh))
	assert.False(t, Qualifies(domain.AchievementStreak3, fresh))

	veteran := StatsSnapshot{TotalWorkouts: 120, TotalMinutes: 4000, StreakBest: 31}
	assert.True(t, Qualifies(domain.AchievementWorkouts100, veteran))
	assert.True(t, Qualifies(domain.AchievementStreak30, veteran))
	assert.True(t, Qualifies(domain.AchievementMinutes1000, veteran))

	assert.False(t, Qualifies(domain.AchievementGoalSetter, fresh))
	assert.True(t, Qualifies(domain.AchievementGoalSetter, StatsSnapshot{HasAnyGoal: true}))
	assert.True(t, Qualifies(domain.AchievementGoalAchieved, StatsSnapshot{HasAchievedGoal: true}))

	// Unknown catalog keys never unlock.
	assert.False(t, Qualifies(domain.AchievementKey("bogus"), veteran))
}

func TestCatalogCoversAllCriteria(t *testing.T) {
	seen := make(map[domain.AchievementKey]bool)
	for _, a := range Catalog() {
		assert.False(t, seen[a.Key], "duplicate key %s", a.Key)
		seen[a.Key] = true
		_, ok := criteria[a.Key]
		assert.True(t, ok, "catalog key %s has no criterion", a.Key)
		assert.Positive(t, a.XPReward)
	}
	assert.Len(t, seen, len(criteria))
}
