package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/kvstore"
	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// Collection keys in the kv store.
const (
	habitsKey  = "habits"
	entriesKey = "entries"
	usersKey   = "users"
)

// KV repositories wrap the in-memory repositories with blob persistence:
// the full collection is loaded once at construction and rewritten
// synchronously after every mutation. A blob that fails to decode yields an
// empty collection with a logged warning instead of an error, since the data
// is user-owned and regenerable by re-entry.

type KVHabitRepository struct {
	mem   *InMemoryHabitRepository
	store kvstore.Store
}

var _ domain.HabitRepository = (*KVHabitRepository)(nil)

func NewKVHabitRepository(ctx context.Context, store kvstore.Store) (*KVHabitRepository, error) {
	r := &KVHabitRepository{
		mem:   NewInMemoryHabitRepository(),
		store: store,
	}

	habits, err := loadCollection[*domain.Habit](ctx, store, habitsKey)
	if err != nil {
		return nil, err
	}
	r.mem.restore(habits)

	return r, nil
}

func (r *KVHabitRepository) flush(ctx context.Context) error {
	return saveCollection(ctx, r.store, habitsKey, r.mem.snapshot())
}

func (r *KVHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.mem.Create(ctx, habit); err != nil {
		return err
	}
	return r.flush(ctx)
}

func (r *KVHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.mem.GetByID(ctx, id)
}

func (r *KVHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return r.mem.ListByUserID(ctx, userID)
}

func (r *KVHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.mem.Update(ctx, habit); err != nil {
		return err
	}
	return r.flush(ctx)
}

func (r *KVHabitRepository) Delete(ctx context.Context, id string) error {
	if err := r.mem.Delete(ctx, id); err != nil {
		return err
	}
	return r.flush(ctx)
}

func (r *KVHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	if err := r.mem.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	return r.flush(ctx)
}

type KVEntryRepository struct {
	mem   *InMemoryEntryRepository
	store kvstore.Store
}

var _ domain.EntryRepository = (*KVEntryRepository)(nil)

func NewKVEntryRepository(ctx context.Context, store kvstore.Store) (*KVEntryRepository, error) {
	r := &KVEntryRepository{
		mem:   NewInMemoryEntryRepository(),
		store: store,
	}

	entries, err := loadCollection[*domain.Entry](ctx, store, entriesKey)
	if err != nil {
		return nil, err
	}
	r.mem.restore(entries)

	return r, nil
}

func (r *KVEntryRepository) flush(ctx context.Context) error {
	return saveCollection(ctx, r.store, entriesKey, r.mem.snapshot())
}

func (r *KVEntryRepository) Upsert(ctx context.Context, entry *domain.Entry) error {
	if err := r.mem.Upsert(ctx, entry); err != nil {
		return err
	}
	return r.flush(ctx)
}

func (r *KVEntryRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Entry, error) {
	return r.mem.GetByHabitAndDay(ctx, habitID, day)
}

func (r *KVEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Entry, error) {
	return r.mem.ListByHabitID(ctx, habitID)
}

func (r *KVEntryRepository) ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Entry, error) {
	return r.mem.ListByHabitIDRange(ctx, habitID, from, to)
}

func (r *KVEntryRepository) ListByUserIDRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Entry, error) {
	return r.mem.ListByUserIDRange(ctx, userID, from, to)
}

func (r *KVEntryRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	if err := r.mem.DeleteByHabitID(ctx, habitID); err != nil {
		return err
	}
	return r.flush(ctx)
}

type KVUserRepository struct {
	mem   *InMemoryUserRepository
	store kvstore.Store
}

var _ domain.UserRepository = (*KVUserRepository)(nil)

// storedUser carries the password hash, which the domain type keeps out of
// its JSON form on purpose.
type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewKVUserRepository(ctx context.Context, store kvstore.Store) (*KVUserRepository, error) {
	r := &KVUserRepository{
		mem:   NewInMemoryUserRepository(),
		store: store,
	}

	stored, err := loadCollection[storedUser](ctx, store, usersKey)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(stored))
	for _, s := range stored {
		users = append(users, &domain.User{
			ID:           s.ID,
			Email:        s.Email,
			DisplayName:  s.DisplayName,
			PasswordHash: s.PasswordHash,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	r.mem.restore(users)

	return r, nil
}

func (r *KVUserRepository) flush(ctx context.Context) error {
	users := r.mem.snapshot()
	stored := make([]storedUser, 0, len(users))
	for _, u := range users {
		stored = append(stored, storedUser{
			ID:           u.ID,
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return saveCollection(ctx, r.store, usersKey, stored)
}

func (r *KVUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.mem.Create(ctx, user); err != nil {
		return err
	}
	return r.flush(ctx)
}

func (r *KVUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.mem.GetByID(ctx, id)
}

func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.mem.GetByEmail(ctx, email)
}

func saveCollection[T any](ctx context.Context, store kvstore.Store, key string, items []T) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", key, err)
	}
	return store.Save(ctx, key, blob)
}

func loadCollection[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	blob, ok, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		log.Printf("repository: stored %s collection failed to decode, starting empty: %v", key, err)
		return nil, nil
	}
	return items, nil
}
