// Package gamification holds the pure progression math: level thresholds,
// XP awards, streak counting and achievement criteria. Nothing here touches
// storage; the progression service wires these functions to repositories.
package gamification

// levelThresholds[i] is the XP required to be at level i+1. Capped: any XP
// at or past the last entry is max level.
var levelThresholds = [...]int{0, 100, 250, 500, 800, 1200, 1800, 2500, 3500, 5000, 7000, 10000}

// MaxLevel is the highest reachable level.
const MaxLevel = len(levelThresholds)

// xpPerBlock is awarded for each complete block of blockMinutes trained.
const (
	blockMinutes = 6
	xpPerBlock   = 10
)

// LevelForXP returns the level for a given XP total. Total over all inputs;
// negative XP is treated as zero.
func LevelForXP(xp int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if xp < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// XPForNextLevel returns the XP threshold of the next level, or -1 when the
// user is already at max level.
func XPForNextLevel(xp int) int {
	level := LevelForXP(xp)
	if level >= MaxLevel {
		return -1
	}
	return levelThresholds[level]
}

// XPForMinutes converts minutes trained into an XP award: 10 XP per each
// complete 6-minute block, partial blocks truncated.
func XPForMinutes(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes / blockMinutes * xpPerBlock
}
