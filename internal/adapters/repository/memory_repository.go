package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// In-memory repositories back tests and the kv persistence mode. They guard
// their maps with a RWMutex and copy on every read and write, so callers and
// the background streak worker never share a struct with the store. Upsert
// and Update are the only points where caller state reaches the map.

type InMemoryHabitRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.Habit
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit.Clone(), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h.Clone())
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	habit.SetStreaks(current, longest)
	return nil
}

func (r *InMemoryHabitRepository) snapshot() []*domain.Habit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := make([]*domain.Habit, 0, len(r.store))
	for _, h := range r.store {
		habits = append(habits, h.Clone())
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits
}

func (r *InMemoryHabitRepository) restore(habits []*domain.Habit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = make(map[string]*domain.Habit, len(habits))
	for _, h := range habits {
		r.store[h.ID] = h
	}
}

// InMemoryEntryRepository keys entries by (habit id, day) so the uniqueness
// invariant is structural: a second upsert for the same day replaces the
// first.
type InMemoryEntryRepository struct {
	mu    sync.RWMutex
	store map[string]map[string]*domain.Entry // habitID -> dayKey -> entry
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]map[string]*domain.Entry),
	}
}

func (r *InMemoryEntryRepository) Upsert(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.store[entry.HabitID]
	if !ok {
		days = make(map[string]*domain.Entry)
		r.store[entry.HabitID] = days
	}
	days[domain.DayKey(entry.Day)] = entry.Clone()
	return nil
}

func (r *InMemoryEntryRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[habitID][domain.DayKey(domain.Day(day))]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return entry.Clone(), nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortByDay(collect(r.store[habitID], func(*domain.Entry) bool { return true })), nil
}

func (r *InMemoryEntryRepository) ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = domain.Day(from), domain.Day(to)
	return sortByDay(collect(r.store[habitID], func(e *domain.Entry) bool {
		return !e.Day.Before(from) && !e.Day.After(to)
	})), nil
}

func (r *InMemoryEntryRepository) ListByUserIDRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = domain.Day(from), domain.Day(to)
	var entries []*domain.Entry
	for _, days := range r.store {
		entries = append(entries, collect(days, func(e *domain.Entry) bool {
			return e.UserID == userID && !e.Day.Before(from) && !e.Day.After(to)
		})...)
	}
	return sortByDay(entries), nil
}

func (r *InMemoryEntryRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
	return nil
}

func (r *InMemoryEntryRepository) snapshot() []*domain.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.Entry
	for _, days := range r.store {
		for _, e := range days {
			entries = append(entries, e.Clone())
		}
	}
	return sortByDay(entries)
}

func (r *InMemoryEntryRepository) restore(entries []*domain.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = make(map[string]map[string]*domain.Entry)
	for _, e := range entries {
		days, ok := r.store[e.HabitID]
		if !ok {
			days = make(map[string]*domain.Entry)
			r.store[e.HabitID] = days
		}
		days[domain.DayKey(e.Day)] = e
	}
}

func collect(days map[string]*domain.Entry, keep func(*domain.Entry) bool) []*domain.Entry {
	var entries []*domain.Entry
	for _, e := range days {
		if keep(e) {
			entries = append(entries, e.Clone())
		}
	}
	return entries
}

func sortByDay(entries []*domain.Entry) []*domain.Entry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day.Before(entries[j].Day)
	})
	return entries
}

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.store[user.ID] = user.Clone()
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) snapshot() []*domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store))
	for _, u := range r.store {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users
}

func (r *InMemoryUserRepository) restore(users []*domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = make(map[string]*domain.User, len(users))
	for _, u := range users {
		r.store[u.ID] = u
	}
}
