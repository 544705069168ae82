package engine

import (
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// Statistics rolls a habit's entries up into range counts and streaks.
// rangeEntries are the entries inside the requested range (ascending by
// day) and drive every count plus the longest streak; allEntries are the
// habit's full history, which the current streak needs because it is always
// measured from today backward regardless of the range.
func Statistics(habit *domain.Habit, rangeEntries, allEntries []*domain.Entry, today time.Time) domain.HabitStatistics {
	stats := domain.HabitStatistics{
		HabitID:    habit.ID,
		HabitTitle: habit.Title,
	}

	for _, e := range rangeEntries {
		stats.TotalDays++
		switch {
		case IsDayComplete(habit, e):
			stats.CompletedDays++
		case e.Logged():
			stats.FailedDays++
		default:
			stats.SkippedDays++
		}
	}

	stats.CurrentStreak = CurrentStreak(habit, IndexByDay(allEntries), today)
	stats.LongestStreak = LongestStreak(habit, rangeEntries)

	if stats.TotalDays > 0 {
		stats.CompletionRate = float64(stats.CompletedDays) / float64(stats.TotalDays) * 100
	}

	return stats
}
