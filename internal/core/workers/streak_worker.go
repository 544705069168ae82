package workers

import (
	"context"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type EntryRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.Entry, error)
}

// StreakWorker refreshes the denormalized streak columns of a habit after
// entry mutations. Enqueue never blocks the write path: the queue is
// buffered and overflow drops the job, since the next mutation re-enqueues
// and statistics recompute streaks live anyway.
type StreakWorker struct {
	habitRepo HabitRepository
	entryRepo EntryRepository
	jobs      chan string
}

func NewStreakWorker(habitRepo HabitRepository, entryRepo EntryRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		jobs:      make(chan string, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("streak worker started")
		for {
			select {
			case habitID := <-w.jobs:
				w.process(ctx, habitID)
			case <-ctx.Done():
				log.Println("streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- habitID:
	default:
		log.Printf("streak worker queue full, dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) process(ctx context.Context, habitID string) {
	habit, err := w.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		log.Printf("streak worker: fetch habit %s: %v", habitID, err)
		return
	}

	entries, err := w.entryRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		log.Printf("streak worker: fetch entries for %s: %v", habitID, err)
		return
	}

	current := engine.CurrentStreak(habit, engine.IndexByDay(entries), time.Now())
	longest := engine.LongestStreak(habit, entries)

	if habit.CurrentStreak == current && habit.LongestStreak == longest {
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habitID, current, longest); err != nil {
		log.Printf("streak worker: update streaks for %s: %v", habitID, err)
		return
	}
	log.Printf("streaks refreshed for %q: current=%d longest=%d", habit.Title, current, longest)
}
