package domain

import "time"

// HabitStatistics summarizes one habit over a date range. It is computed on
// demand and never persisted or cached across mutations.
type HabitStatistics struct {
	HabitID    string `json:"habit_id"`
	HabitTitle string `json:"habit_title"`

	TotalDays     int `json:"total_days"`
	CompletedDays int `json:"completed_days"`
	FailedDays    int `json:"failed_days"`
	SkippedDays   int `json:"skipped_days"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	// CompletionRate is a percentage in [0, 100].
	CompletionRate float64 `json:"completion_rate"`
}

// DayProgress is the fraction of a single day's target that is done.
type DayProgress struct {
	Completed  int     `json:"completed"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
}

// StatsInput scopes a statistics request.
type StatsInput struct {
	UserID    string
	HabitID   string
	StartDate time.Time
	EndDate   time.Time
}

// Insight is a surfaced correlation between two habits' daily completion
// series over a shared range.
type Insight struct {
	HabitAID    string  `json:"habit_a_id"`
	HabitATitle string  `json:"habit_a_title"`
	HabitBID    string  `json:"habit_b_id"`
	HabitBTitle string  `json:"habit_b_title"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
}

const (
	InsightThreshold       = 0.3
	StrongInsightThreshold = 0.7

	InsightStrengthStrong   = "strong"
	InsightStrengthModerate = "moderate"
)
