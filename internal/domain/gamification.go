package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GamificationAggregate is the durable per-user progression row. XP and
// StreakBest are monotonically non-decreasing over the account's lifetime;
// Level is derived from XP and stored for cheap reads.
type GamificationAggregate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	XP            int                `bson:"xp" json:"xp"`
	Level         int                `bson:"level" json:"level"`
	TotalWorkouts int                `bson:"totalWorkouts" json:"totalWorkouts"`
	TotalMinutes  int                `bson:"totalMinutes" json:"totalMinutes"`
	StreakBest    int                `bson:"streakBest" json:"streakBest"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AchievementKey identifies the criterion behind an achievement. Closed set;
// the display mapping (icons etc.) lives entirely in the clients.
type AchievementKey string

const (
	AchievementFirstWorkout AchievementKey = "first_workout"
	AchievementWorkouts10   AchievementKey = "workouts_10"
	AchievementWorkouts50   AchievementKey = "workouts_50"
	AchievementWorkouts100  AchievementKey = "workouts_100"
	AchievementStreak3      AchievementKey = "streak_3"
	AchievementStreak7      AchievementKey = "streak_7"
	AchievementStreak30     AchievementKey = "streak_30"
	AchievementMinutes500   AchievementKey = "minutes_500"
	AchievementMinutes1000  AchievementKey = "minutes_1000"
	AchievementGoalSetter   AchievementKey = "goal_setter"
	AchievementGoalAchieved AchievementKey = "goal_achieved"
)

// Achievement is static catalog data, seeded at startup.
type Achievement struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key      AchievementKey     `bson:"key" json:"key"` // Unique
	Name     string             `bson:"name" json:"name"`
	XPReward int                `bson:"xpReward" json:"xpReward"`
}

// UnlockedAchievement joins a user to an achievement. The (userId,
// achievementId) pair is unique: an achievement unlocks at most once.
type UnlockedAchievement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	AchievementID primitive.ObjectID `bson:"achievementId" json:"achievementId"`
	UnlockedAt    time.Time          `bson:"unlockedAt" json:"unlockedAt"`
}
