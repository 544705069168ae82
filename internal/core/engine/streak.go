package engine

import (
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// CurrentStreak walks backward day-by-day from today and counts consecutive
// complete days. Any day that is not complete ends the walk, whether it was
// explicitly logged incomplete or simply never touched. No look-ahead beyond
// today.
func CurrentStreak(habit *domain.Habit, idx EntryIndex, today time.Time) int {
	streak := 0
	day := domain.Day(today)
	for {
		if !IsDayComplete(habit, idx.Lookup(day)) {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LongestStreak scans the habit's entries ascending by day and returns the
// longest run of complete days. A logged-but-incomplete day resets the run;
// an entry that carries no activity at all (a placeholder) is bridged over
// without resetting, matching the historical behavior of the current/longest
// pair: unlogged days end the current streak but do not break a past run.
func LongestStreak(habit *domain.Habit, entries []*domain.Entry) int {
	longest := 0
	run := 0
	for _, e := range entries {
		switch {
		case IsDayComplete(habit, e):
			run++
			if run > longest {
				longest = run
			}
		case e.Logged():
			run = 0
		}
	}
	return longest
}
