package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/engine"
)

// InsightService surfaces pairwise correlations between a user's habits:
// every habit pair's daily completion series over the range is correlated,
// and pairs above the threshold come back sorted by descending strength.
type InsightService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.EntryRepository
}

func NewInsightService(habitRepo domain.HabitRepository, entryRepo domain.EntryRepository) *InsightService {
	return &InsightService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
	}
}

// Correlations computes insights for all habit pairs of a user over
// [from, to], inclusive of both endpoints. Fewer than two habits yields an
// empty result.
func (s *InsightService) Correlations(ctx context.Context, userID string, from, to time.Time) ([]domain.Insight, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights := []domain.Insight{}
	if len(habits) < 2 {
		return insights, nil
	}

	from = domain.Day(from)
	to = domain.Day(to)

	series := make(map[string][]float64, len(habits))
	for _, h := range habits {
		entries, err := s.entryRepo.ListByHabitIDRange(ctx, h.ID, from, to)
		if err != nil {
			return nil, err
		}
		series[h.ID] = engine.DailyCompletionSeries(h, engine.IndexByDay(entries), from, to)
	}

	for i := 0; i < len(habits); i++ {
		for j := i + 1; j < len(habits); j++ {
			a, b := habits[i], habits[j]

			r := engine.PearsonCorrelation(series[a.ID], series[b.ID])
			if math.Abs(r) <= domain.InsightThreshold {
				continue
			}

			insights = append(insights, domain.Insight{
				HabitAID:    a.ID,
				HabitATitle: a.Title,
				HabitBID:    b.ID,
				HabitBTitle: b.Title,
				Correlation: r,
				Strength:    engine.InsightStrength(r),
			})
		}
	}

	sort.Slice(insights, func(i, j int) bool {
		return math.Abs(insights[i].Correlation) > math.Abs(insights[j].Correlation)
	})

	return insights, nil
}
