package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidPolarity    = errors.New("invalid polarity (must be positive or negative)")
	ErrInvalidTarget      = errors.New("target completions per day must be at least 1")
	ErrInvalidDuration    = errors.New("duration days cannot be negative")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	PolarityPositive = "positive"
	PolarityNegative = "negative"

	DefaultIcon = "circle"
	MaxTitleLen = 100
	MaxDescLen  = 500
)

// Habit is a user-defined trackable behavior. TargetPerDay > 1 switches the
// habit into multi-completion mode, where a day is only complete once that
// many completions have been logged.
//
// DurationDays == 0 means the habit runs indefinitely; a positive value fixes
// a window of that many days starting at StartDate.
type Habit struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	Polarity    string `json:"polarity" db:"polarity"`

	TargetPerDay int       `json:"target_per_day" db:"target_per_day"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	DurationDays int       `json:"duration_days" db:"duration_days"`

	Color string `json:"color" db:"color"`
	Icon  string `json:"icon" db:"icon"`

	// Denormalized streak cache maintained by the streak worker. Statistics
	// always recompute streaks live; these exist for cheap list views.
	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

func validateHabit(title, desc, polarity, color string, target, durationDays int) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmed) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	switch polarity {
	case PolarityPositive, PolarityNegative:
	default:
		return ErrInvalidPolarity
	}

	if target < 1 {
		return ErrInvalidTarget
	}
	if durationDays < 0 {
		return ErrInvalidDuration
	}
	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

func NewHabit(userID, title, description, polarity, color, icon string, targetPerDay, durationDays int, startDate time.Time) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}
	if polarity == "" {
		polarity = PolarityPositive
	}

	cleanDesc := strings.TrimSpace(description)
	if err := validateHabit(title, cleanDesc, polarity, color, targetPerDay, durationDays); err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now().UTC()
	if startDate.IsZero() {
		startDate = now
	}

	return &Habit{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Description:  cleanDesc,
		Polarity:     polarity,
		TargetPerDay: targetPerDay,
		StartDate:    Day(startDate),
		DurationDays: durationDays,
		Color:        color,
		Icon:         icon,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Update overwrites the mutable attributes. Historical entries are not
// touched; a change to TargetPerDay reinterprets them on the next read.
func (h *Habit) Update(title, description, polarity, color, icon string, targetPerDay, durationDays int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	cleanDesc := strings.TrimSpace(description)
	if err := validateHabit(title, cleanDesc, polarity, color, targetPerDay, durationDays); err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	h.Title = strings.TrimSpace(title)
	h.Description = cleanDesc
	h.Polarity = polarity
	h.TargetPerDay = targetPerDay
	h.DurationDays = durationDays
	h.Color = color
	h.Icon = icon
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// Clone returns a copy of the habit detached from the original, so stores
// can hand out habits without sharing mutable state with callers.
func (h *Habit) Clone() *Habit {
	clone := *h
	if h.ArchivedAt != nil {
		archived := *h.ArchivedAt
		clone.ArchivedAt = &archived
	}
	return &clone
}

// MultiCompletion reports whether the habit tracks discrete completions
// within a day instead of a single per-day status.
func (h *Habit) MultiCompletion() bool {
	return h.TargetPerDay > 1
}

// FixedDuration reports whether the habit runs over a fixed day window.
func (h *Habit) FixedDuration() bool {
	return h.DurationDays > 0
}

func (h *Habit) SetStreaks(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}
	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
