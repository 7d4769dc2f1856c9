package gamification

import "time"

// Day truncates t to its calendar day in t's own location. Streaks are
// computed at calendar-day granularity in the user's local timezone.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DistinctDaysDesc deduplicates timestamps to one entry per calendar day,
// sorted most-recent-first. The input must already be ordered most recent
// first, which is how session dates come back from storage.
func DistinctDaysDesc(times []time.Time) []time.Time {
	var days []time.Time
	for _, t := range times {
		d := Day(t)
		if len(days) > 0 && days[len(days)-1].Equal(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// CurrentStreak counts consecutive training days ending at today. A run that
// ends yesterday still counts: a user who trained yesterday but has not yet
// trained today keeps their streak. A gap of a full day or more resets to
// zero.
//
// days must be distinct calendar days, most recent first (DistinctDaysDesc).
func CurrentStreak(today time.Time, days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	anchor := Day(today)
	if days[0].Equal(anchor.AddDate(0, 0, -1)) {
		anchor = anchor.AddDate(0, 0, -1)
	}
	streak := 0
	for i, d := range days {
		if !d.Equal(anchor.AddDate(0, 0, -i)) {
			break
		}
		streak++
	}
	return streak
}
