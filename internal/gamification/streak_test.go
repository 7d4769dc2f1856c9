package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 18, 30, 0, 0, time.Local)

func daysAgo(n ...int) []time.Time {
	var out []time.Time
	for _, d := range n {
		out = append(out, Day(today).AddDate(0, 0, -d))
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	t.Run("no sessions", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(today, nil))
	})

	t.Run("today, yesterday, day before", func(t *testing.T) {
		assert.Equal(t, 3, CurrentStreak(today, daysAgo(0, 1, 2)))
	})

	t.Run("yesterday and day before, nothing today yet", func(t *testing.T) {
		assert.Equal(t, 2, CurrentStreak(today, daysAgo(1, 2)))
	})

	t.Run("gap since two days ago resets", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(today, daysAgo(2)))
	})

	t.Run("gap inside the run stops the count", func(t *testing.T) {
		assert.Equal(t, 2, CurrentStreak(today, daysAgo(0, 1, 3, 4)))
	})

	t.Run("only today", func(t *testing.T) {
		assert.Equal(t, 1, CurrentStreak(today, daysAgo(0)))
	})
}

func TestDistinctDaysDesc(t *testing.T) {
	morning := time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local)
	evening := time.Date(2025, 6, 15, 20, 0, 0, 0, time.Local)
	yesterday := time.Date(2025, 6, 14, 12, 0, 0, 0, time.Local)

	days := DistinctDaysDesc([]time.Time{evening, morning, yesterday})
	require.Len(t, days, 2)
	assert.Equal(t, Day(evening), days[0])
	assert.Equal(t, Day(yesterday), days[1])
}

func TestDistinctDaysDescFeedsStreak(t *testing.T) {
	// Two sessions today plus one yesterday is still a 2-day streak.
	sessions := []time.Time{
		today,
		today.Add(-2 * time.Hour),
		today.AddDate(0, 0, -1),
	}
	assert.Equal(t, 2, CurrentStreak(today, DistinctDaysDesc(sessions)))
}
