// Package engine holds the pure computation core: day-completion verdicts,
// streak calculation, range statistics, and correlation. Every function here
// operates on an already-fetched snapshot of entries and has no side effects;
// services fetch from repositories and feed the result in.
package engine

import (
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// EntryIndex maps normalized day keys to their single entry.
type EntryIndex map[string]*domain.Entry

// IndexByDay builds a day-keyed lookup. Later entries for the same day win,
// though repositories never hand out duplicates.
func IndexByDay(entries []*domain.Entry) EntryIndex {
	idx := make(EntryIndex, len(entries))
	for _, e := range entries {
		idx[domain.DayKey(e.Day)] = e
	}
	return idx
}

// Lookup returns the entry for a day, or nil when the day has never been
// touched.
func (idx EntryIndex) Lookup(day time.Time) *domain.Entry {
	return idx[domain.DayKey(domain.Day(day))]
}

// IsDayComplete answers "is this day satisfied" for a habit. For
// multi-completion habits the day is complete once the number of completed
// completions reaches the per-day target; otherwise the entry's status must
// be completed. An absent day (nil entry) is never complete.
func IsDayComplete(habit *domain.Habit, entry *domain.Entry) bool {
	if entry == nil {
		return false
	}
	if habit.MultiCompletion() {
		return entry.CompletedCount() >= habit.TargetPerDay
	}
	return entry.Status == domain.StatusCompleted
}

// Progress reports how much of the day's target is done. The completed count
// is uncapped; the percentage is clamped to [0, 1]. A zero target violates
// the habit invariant and yields zero progress rather than dividing by zero.
func Progress(habit *domain.Habit, entry *domain.Entry) domain.DayProgress {
	if habit.MultiCompletion() {
		completed := 0
		if entry != nil {
			completed = entry.CompletedCount()
		}
		p := domain.DayProgress{
			Completed: completed,
			Target:    habit.TargetPerDay,
		}
		if habit.TargetPerDay > 0 {
			p.Percentage = min(float64(completed)/float64(habit.TargetPerDay), 1.0)
		}
		return p
	}

	p := domain.DayProgress{Target: 1}
	if IsDayComplete(habit, entry) {
		p.Completed = 1
		p.Percentage = 1.0
	}
	return p
}
