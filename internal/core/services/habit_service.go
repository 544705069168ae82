package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

type HabitService struct {
	repo      domain.HabitRepository
	entryRepo domain.EntryRepository
}

func NewHabitService(repo domain.HabitRepository, entryRepo domain.EntryRepository) *HabitService {
	return &HabitService{
		repo:      repo,
		entryRepo: entryRepo,
	}
}

type CreateHabitInput struct {
	UserID       string
	Title        string
	Description  string
	Polarity     string
	Color        string
	Icon         string
	TargetPerDay int
	DurationDays int
	StartDate    time.Time
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Polarity     string
	Color        string
	Icon         string
	TargetPerDay int
	DurationDays int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	if input.TargetPerDay == 0 {
		input.TargetPerDay = 1
	}

	habit, err := domain.NewHabit(
		input.UserID,
		input.Title,
		input.Description,
		input.Polarity,
		input.Color,
		input.Icon,
		input.TargetPerDay,
		input.DurationDays,
		input.StartDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

// Update applies a partial update: empty strings and zero targets keep the
// stored value. Historical entries are untouched.
func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	target := habit.TargetPerDay
	if input.TargetPerDay > 0 {
		target = input.TargetPerDay
	}

	duration := habit.DurationDays
	if input.DurationDays > 0 {
		duration = input.DurationDays
	}

	err = habit.Update(
		mergeString(input.Title, habit.Title),
		mergeString(input.Description, habit.Description),
		mergeString(input.Polarity, habit.Polarity),
		mergeString(input.Color, habit.Color),
		mergeString(input.Icon, habit.Icon),
		target,
		duration,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// Delete removes the habit and cascades to every entry referencing it.
func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.entryRepo.DeleteByHabitID(ctx, id); err != nil {
		return fmt.Errorf("habit service: failed to cascade entry deletion: %w", err)
	}

	return s.repo.Delete(ctx, id)
}
