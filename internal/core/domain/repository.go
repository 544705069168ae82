package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrUnauthorized  = errors.New("unauthorized access")
)

type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits owned by a user, oldest first.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update overwrites the state of an existing habit.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit. Entry cleanup is the caller's
	// responsibility (the habit service cascades through the entry repo).
	Delete(ctx context.Context, id string) error

	// UpdateStreaks writes only the denormalized streak cache.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}
