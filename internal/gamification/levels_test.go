package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{800, 5},
		{9999, 11},
		{10000, 12},
		{999999, 12},
		{-5, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, LevelForXP(c.xp), "xp=%d", c.xp)
	}
}

func TestMaxLevel(t *testing.T) {
	// MaxLevel is a true constant, usable as an array length.
	var perLevel [MaxLevel]int
	assert.Equal(t, 12, len(perLevel))
	assert.Equal(t, MaxLevel, LevelForXP(levelThresholds[MaxLevel-1]))
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 12000; xp += 7 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}

func TestXPForNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPForNextLevel(0))
	assert.Equal(t, 100, XPForNextLevel(99))
	assert.Equal(t, 250, XPForNextLevel(100))
	assert.Equal(t, -1, XPForNextLevel(10000))
	assert.Equal(t, -1, XPForNextLevel(999999))
}

func TestXPForMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		xp      int
	}{
		{0, 0},
		{5, 0},
		{6, 10},
		{11, 10},
		{12, 20},
		{30, 50},
		{-10, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.xp, XPForMinutes(c.minutes), "minutes=%d", c.minutes)
	}
}
