package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/workers"
)

// EntryService owns every entry mutation. All writes go through
// find-or-create so the (habit, day) uniqueness invariant holds, and every
// mutation persists the entry synchronously before the streak worker is
// poked.
//
// Repositories hand out detached copies, so every mutation is a
// read-modify-write round trip. Mutations for the same (habit, day) are
// serialized on a keyed mutex; otherwise two concurrent completions could
// each load the same snapshot and the second upsert would drop the first.
type EntryService struct {
	repo      domain.EntryRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker

	dayLocks sync.Map // habitID|dayKey -> *sync.Mutex
}

func NewEntryService(repo domain.EntryRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *EntryService {
	return &EntryService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type SetStatusInput struct {
	HabitID string
	UserID  string
	Day     time.Time
	Status  domain.Status
	Notes   string
}

type AddCompletionInput struct {
	HabitID string
	UserID  string
	Day     time.Time
	Status  domain.Status
	Notes   string
}

type UpdateCompletionInput struct {
	HabitID      string
	UserID       string
	CompletionID string
	Day          time.Time
	Status       domain.Status
	Notes        string
}

func (s *EntryService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return habit, nil
}

// lockDay takes the mutex guarding writes for one (habit, day) pair and
// returns its unlock func.
func (s *EntryService) lockDay(habitID string, day time.Time) func() {
	key := habitID + "|" + domain.DayKey(domain.Day(day))
	mu, _ := s.dayLocks.LoadOrStore(key, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

func (s *EntryService) findOrCreate(ctx context.Context, habitID, userID string, day time.Time) (*domain.Entry, error) {
	entry, err := s.repo.GetByHabitAndDay(ctx, habitID, domain.Day(day))
	if err == nil {
		return entry, nil
	}
	if errors.Is(err, domain.ErrEntryNotFound) {
		return domain.NewEntry(habitID, userID, day), nil
	}
	return nil, err
}

// SetStatus overwrites the stored status and notes for the habit's entry on
// the given day, creating the entry if the day was never touched. This is
// the single-completion write path; the completions list is not modified.
func (s *EntryService) SetStatus(ctx context.Context, input SetStatusInput) (*domain.Entry, error) {
	if _, err := s.ownedHabit(ctx, input.HabitID, input.UserID); err != nil {
		return nil, err
	}

	unlock := s.lockDay(input.HabitID, input.Day)
	defer unlock()

	entry, err := s.findOrCreate(ctx, input.HabitID, input.UserID, input.Day)
	if err != nil {
		return nil, err
	}

	if err := entry.SetStatus(input.Status, input.Notes); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.HabitID)

	return entry, nil
}

// AddCompletion appends one discrete completion to the day's entry and
// rederives the entry status. Defaults to completed when no status is given.
func (s *EntryService) AddCompletion(ctx context.Context, input AddCompletionInput) (*domain.Entry, *domain.Completion, error) {
	if _, err := s.ownedHabit(ctx, input.HabitID, input.UserID); err != nil {
		return nil, nil, err
	}

	if input.Status == "" {
		input.Status = domain.StatusCompleted
	}

	unlock := s.lockDay(input.HabitID, input.Day)
	defer unlock()

	entry, err := s.findOrCreate(ctx, input.HabitID, input.UserID, input.Day)
	if err != nil {
		return nil, nil, err
	}

	completion, err := entry.AddCompletion(input.Status, input.Notes)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, nil, err
	}

	s.worker.Enqueue(input.HabitID)

	return entry, completion, nil
}

// RemoveCompletion deletes a completion by id from the day's entry. A
// missing entry or completion is a soft no-op, not an error.
func (s *EntryService) RemoveCompletion(ctx context.Context, habitID, userID, completionID string, day time.Time) error {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return err
	}

	unlock := s.lockDay(habitID, day)
	defer unlock()

	entry, err := s.repo.GetByHabitAndDay(ctx, habitID, domain.Day(day))
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil
		}
		return err
	}

	if !entry.RemoveCompletion(completionID) {
		return nil
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}

// UpdateCompletion overwrites a completion's status and notes in place and
// rederives the entry status. Missing targets are a soft no-op.
func (s *EntryService) UpdateCompletion(ctx context.Context, input UpdateCompletionInput) error {
	if _, err := s.ownedHabit(ctx, input.HabitID, input.UserID); err != nil {
		return err
	}

	unlock := s.lockDay(input.HabitID, input.Day)
	defer unlock()

	entry, err := s.repo.GetByHabitAndDay(ctx, input.HabitID, domain.Day(input.Day))
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil
		}
		return err
	}

	found, err := entry.UpdateCompletion(input.CompletionID, input.Status, input.Notes)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return err
	}

	s.worker.Enqueue(input.HabitID)

	return nil
}

// GetDay returns the entry for one day, or ErrEntryNotFound.
func (s *EntryService) GetDay(ctx context.Context, habitID, userID string, day time.Time) (*domain.Entry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByHabitAndDay(ctx, habitID, domain.Day(day))
}

// ListByHabitID returns a habit's entries in [from, to], ascending by day.
func (s *EntryService) ListByHabitID(ctx context.Context, habitID, userID string, from, to time.Time) ([]*domain.Entry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByHabitIDRange(ctx, habitID, domain.Day(from), domain.Day(to))
}
