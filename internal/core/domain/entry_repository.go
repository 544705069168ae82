package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEntryNotFound = errors.New("habit entry not found")
	ErrEntryExists   = errors.New("an entry already exists for this habit and day")
)

// EntryRepository is the entry store port. Implementations must uphold the
// (habit, day) uniqueness invariant: Upsert replaces any existing entry for
// the same habit and normalized day.
type EntryRepository interface {
	// Upsert inserts the entry or replaces the existing one for the same
	// (habit_id, day) pair.
	Upsert(ctx context.Context, entry *Entry) error

	// GetByHabitAndDay retrieves the single entry for a habit on a
	// normalized calendar day, or ErrEntryNotFound.
	GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*Entry, error)

	// ListByHabitID retrieves every entry for a habit, ascending by day.
	ListByHabitID(ctx context.Context, habitID string) ([]*Entry, error)

	// ListByHabitIDRange retrieves a habit's entries with from <= day <= to,
	// ascending by day.
	ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*Entry, error)

	// ListByUserIDRange retrieves all of a user's entries in the range,
	// across habits, ascending by day.
	ListByUserIDRange(ctx context.Context, userID string, from, to time.Time) ([]*Entry, error)

	// DeleteByHabitID removes every entry of a habit. Used by the habit
	// deletion cascade; deleting for an unknown habit is a no-op.
	DeleteByHabitID(ctx context.Context, habitID string) error
}
