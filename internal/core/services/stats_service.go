package services

import (
	"context"
	"errors"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

// StatsService computes on-demand statistics; nothing here is cached across
// mutations, the engine recomputes from the entry store every call.
type StatsService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.EntryRepository

	// now is swappable so tests can pin "today" for the streak walk.
	now func() time.Time
}

func NewStatsService(habitRepo domain.HabitRepository, entryRepo domain.EntryRepository) *StatsService {
	return &StatsService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

func (s *StatsService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return habit, nil
}

// GetStatistics summarizes one habit over [input.StartDate, input.EndDate].
// The current streak deliberately ignores the range and is always walked
// backward from today over the habit's full history.
func (s *StatsService) GetStatistics(ctx context.Context, input domain.StatsInput) (*domain.HabitStatistics, error) {
	habit, err := s.ownedHabit(ctx, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}

	from := domain.Day(input.StartDate)
	to := domain.Day(input.EndDate)

	rangeEntries, err := s.entryRepo.ListByHabitIDRange(ctx, habit.ID, from, to)
	if err != nil {
		return nil, err
	}

	allEntries, err := s.entryRepo.ListByHabitID(ctx, habit.ID)
	if err != nil {
		return nil, err
	}

	stats := engine.Statistics(habit, rangeEntries, allEntries, s.now())
	return &stats, nil
}

// GetDayProgress reports the completion fraction for a single day.
func (s *StatsService) GetDayProgress(ctx context.Context, habitID, userID string, day time.Time) (*domain.DayProgress, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.GetByHabitAndDay(ctx, habitID, domain.Day(day))
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	progress := engine.Progress(habit, entry)
	return &progress, nil
}

// GetOverallProgress reports the lifetime fraction for a fixed-duration
// habit, 0 for unlimited habits.
func (s *StatsService) GetOverallProgress(ctx context.Context, habitID, userID string) (float64, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return 0, err
	}

	entries, err := s.entryRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return 0, err
	}

	return engine.OverallProgress(habit, engine.IndexByDay(entries)), nil
}
