package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

const habitCacheTTL = 30 * time.Minute

// CachedHabitRepository is a read-through cache over another habit
// repository: habit lists are cached per user and invalidated on every
// write. Cache trouble is logged and degrades to the source of truth.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
}

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedHabitRepository) cacheKey(userID string) string {
	return fmt.Sprintf("habits:%s", userID)
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("cache: failed to invalidate habits for user %s: %v", userID, err)
	}
}

func (r *CachedHabitRepository) invalidateByHabitID(ctx context.Context, id string) {
	if habit, err := r.next.GetByID(ctx, id); err == nil {
		r.invalidate(ctx, habit.UserID)
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var habits []*domain.Habit
		if err := json.Unmarshal([]byte(val), &habits); err == nil {
			return habits, nil
		}
		log.Printf("cache: corrupted habit list for user %s, dropping key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("cache: redis read error: %v", err)
	}

	habits, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, key, data, habitCacheTTL).Err(); setErr != nil {
			log.Printf("cache: redis set error: %v", setErr)
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	r.invalidateByHabitID(ctx, id)
	return r.next.Delete(ctx, id)
}

func (r *CachedHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	if err := r.next.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	r.invalidateByHabitID(ctx, id)
	return nil
}
