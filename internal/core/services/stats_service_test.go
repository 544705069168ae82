package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

func logDay(t *testing.T, repo *mockEntryRepo, habit *domain.Habit, day time.Time, status domain.Status) {
	t.Helper()
	entry := domain.NewEntry(habit.ID, habit.UserID, day)
	require.NoError(t, entry.SetStatus(status, ""))
	require.NoError(t, repo.Upsert(context.Background(), entry))
}

func TestStatsServiceGetStatistics(t *testing.T) {
	habitRepo := newMockHabitRepo()
	entryRepo := newMockEntryRepo()
	svc := services.NewStatsService(habitRepo, entryRepo)

	habit := seedHabit(t, habitRepo, "user-1", "Run", 1)

	// Aug 25..29: done, done, failed, untouched, done.
	base := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	logDay(t, entryRepo, habit, base, domain.StatusCompleted)
	logDay(t, entryRepo, habit, base.AddDate(0, 0, 1), domain.StatusCompleted)
	logDay(t, entryRepo, habit, base.AddDate(0, 0, 2), domain.StatusFailed)
	logDay(t, entryRepo, habit, base.AddDate(0, 0, 4), domain.StatusCompleted)

	stats, err := svc.GetStatistics(context.Background(), domain.StatsInput{
		UserID:    "user-1",
		HabitID:   habit.ID,
		StartDate: base,
		EndDate:   base.AddDate(0, 0, 4),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalDays)
	assert.Equal(t, 3, stats.CompletedDays)
	assert.Equal(t, 1, stats.FailedDays)
	assert.Equal(t, 0, stats.SkippedDays)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.InDelta(t, 75.0, stats.CompletionRate, 0.001)

	t.Run("ownership enforced", func(t *testing.T) {
		_, err := svc.GetStatistics(context.Background(), domain.StatsInput{
			UserID:    "user-2",
			HabitID:   habit.ID,
			StartDate: base,
			EndDate:   base.AddDate(0, 0, 4),
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty range", func(t *testing.T) {
		stats, err := svc.GetStatistics(context.Background(), domain.StatsInput{
			UserID:    "user-1",
			HabitID:   habit.ID,
			StartDate: base.AddDate(0, -2, 0),
			EndDate:   base.AddDate(0, -1, 0),
		})
		require.NoError(t, err)
		assert.Zero(t, stats.TotalDays)
		assert.Zero(t, stats.CompletionRate)
	})
}

func TestStatsServiceGetDayProgress(t *testing.T) {
	habitRepo := newMockHabitRepo()
	entryRepo := newMockEntryRepo()
	svc := services.NewStatsService(habitRepo, entryRepo)

	habit := seedHabit(t, habitRepo, "user-1", "Water", 3)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	entry := domain.NewEntry(habit.ID, "user-1", day)
	_, err := entry.AddCompletion(domain.StatusCompleted, "")
	require.NoError(t, err)
	_, err = entry.AddCompletion(domain.StatusCompleted, "")
	require.NoError(t, err)
	require.NoError(t, entryRepo.Upsert(context.Background(), entry))

	t.Run("partial day", func(t *testing.T) {
		progress, err := svc.GetDayProgress(context.Background(), habit.ID, "user-1", day)
		require.NoError(t, err)

		assert.Equal(t, 2, progress.Completed)
		assert.Equal(t, 3, progress.Target)
		assert.InDelta(t, 2.0/3.0, progress.Percentage, 0.001)
	})

	t.Run("untouched day reports zero without erroring", func(t *testing.T) {
		progress, err := svc.GetDayProgress(context.Background(), habit.ID, "user-1", day.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.Zero(t, progress.Completed)
		assert.Equal(t, 3, progress.Target)
		assert.Zero(t, progress.Percentage)
	})
}

func TestStatsServiceGetOverallProgress(t *testing.T) {
	habitRepo := newMockHabitRepo()
	entryRepo := newMockEntryRepo()
	svc := services.NewStatsService(habitRepo, entryRepo)

	t.Run("fixed duration habit", func(t *testing.T) {
		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		habit, err := domain.NewHabit("user-1", "Challenge", "", "", "", "", 1, 10, start)
		require.NoError(t, err)
		require.NoError(t, habitRepo.Create(context.Background(), habit))

		for i := 0; i < 4; i++ {
			logDay(t, entryRepo, habit, start.AddDate(0, 0, i), domain.StatusCompleted)
		}

		progress, err := svc.GetOverallProgress(context.Background(), habit.ID, "user-1")
		require.NoError(t, err)
		assert.InDelta(t, 0.4, progress, 0.001)
	})

	t.Run("unlimited habit reports zero", func(t *testing.T) {
		habit := seedHabit(t, habitRepo, "user-1", "Forever", 1)
		logDay(t, entryRepo, habit, time.Now(), domain.StatusCompleted)

		progress, err := svc.GetOverallProgress(context.Background(), habit.ID, "user-1")
		require.NoError(t, err)
		assert.Zero(t, progress)
	})
}
