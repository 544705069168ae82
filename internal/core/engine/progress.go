package engine

import (
	"math"
	"time"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// OverallProgress is the fraction of a fixed-duration habit's window that
// has been completed, in [0, 1]. Unlimited habits have no denominator and
// report 0.
func OverallProgress(habit *domain.Habit, idx EntryIndex) float64 {
	if !habit.FixedDuration() {
		return 0
	}

	completed := 0
	start := domain.Day(habit.StartDate)
	for i := 0; i < habit.DurationDays; i++ {
		if IsDayComplete(habit, idx.Lookup(start.AddDate(0, 0, i))) {
			completed++
		}
	}

	return float64(completed) / float64(habit.DurationDays)
}

// DailyCompletionSeries builds the binary completion series for a habit over
// [from, to], inclusive of both endpoints: 1.0 for each complete day, 0.0
// otherwise.
func DailyCompletionSeries(habit *domain.Habit, idx EntryIndex, from, to time.Time) []float64 {
	var series []float64
	day := domain.Day(from)
	end := domain.Day(to)
	for !day.After(end) {
		if IsDayComplete(habit, idx.Lookup(day)) {
			series = append(series, 1.0)
		} else {
			series = append(series, 0.0)
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

// PearsonCorrelation is the product-moment correlation coefficient of two
// equal-length series. Mismatched lengths, fewer than two samples, or zero
// variance in either series all yield 0.
func PearsonCorrelation(a, b []float64) float64 {
	n := len(a)
	if n != len(b) || n < 2 {
		return 0
	}

	var sumA, sumB, sumAB, sumA2, sumB2 float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
		sumAB += a[i] * b[i]
		sumA2 += a[i] * a[i]
		sumB2 += b[i] * b[i]
	}

	fn := float64(n)
	denom := math.Sqrt((fn*sumA2 - sumA*sumA) * (fn*sumB2 - sumB*sumB))
	if denom == 0 {
		return 0
	}

	return (fn*sumAB - sumA*sumB) / denom
}

// InsightStrength labels a surfaced correlation.
func InsightStrength(r float64) string {
	if math.Abs(r) > domain.StrongInsightThreshold {
		return domain.InsightStrengthStrong
	}
	return domain.InsightStrengthModerate
}
