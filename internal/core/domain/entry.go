package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid status (must be completed, failed, or skipped)")
	ErrInvalidDay    = errors.New("entry day is required")
)

// Status is the per-day verdict for an entry (or for one completion within
// a multi-completion day).
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Day truncates t to calendar-day granularity in its own location.
// All entry lookups key on this normalized form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey renders a normalized day as a stable map key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Completion is one discrete logged occurrence within a day. Only habits
// with TargetPerDay > 1 accumulate these; the timestamp is for ordering and
// display and is immutable after creation.
type Completion struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}

// CompletionList stores a day's completions in logging order. It round-trips
// through Postgres as a JSONB column.
type CompletionList []Completion

func (l CompletionList) Value() (driver.Value, error) {
	if l == nil {
		l = CompletionList{}
	}
	return json.Marshal(l)
}

func (l *CompletionList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into CompletionList", src)
}

// Entry records a habit's activity for one calendar day. At most one entry
// exists per (habit, day) pair; callers go through find-or-create and never
// insert duplicates.
//
// Status is authoritative only while Completions is empty. As soon as
// completions exist the status is derived from them (completed > failed >
// skipped) and recomputed after every completion mutation.
type Entry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Day    time.Time `json:"day" db:"day"`
	Status Status    `json:"status" db:"status"`
	Notes  string    `json:"notes,omitempty" db:"notes"`

	Completions CompletionList `json:"completions" db:"completions"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewEntry(habitID, userID string, day time.Time) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		UserID:    userID,
		Day:       Day(day),
		Status:    StatusSkipped,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the entry, including its completions list,
// so stores can hand out entries without sharing mutable state with callers.
func (e *Entry) Clone() *Entry {
	clone := *e
	if e.Completions != nil {
		clone.Completions = make(CompletionList, len(e.Completions))
		copy(clone.Completions, e.Completions)
	}
	return &clone
}

func (e *Entry) Validate() error {
	if e.HabitID == "" {
		return errors.New("habit_id is required")
	}
	if e.UserID == "" {
		return errors.New("user_id is required")
	}
	if e.Day.IsZero() {
		return ErrInvalidDay
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// TotalCompletions is the number of discrete completions logged on this day,
// regardless of their status.
func (e *Entry) TotalCompletions() int {
	return len(e.Completions)
}

// CompletedCount counts completions with completed status.
func (e *Entry) CompletedCount() int {
	n := 0
	for _, c := range e.Completions {
		if c.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// Logged reports whether the day carries explicit activity: either discrete
// completions, or a non-default status written through SetStatus. A freshly
// created entry with no completions and skipped status is a "not logged"
// placeholder and is treated differently from an explicit failure when
// scanning streaks.
func (e *Entry) Logged() bool {
	return len(e.Completions) > 0 || e.Status != StatusSkipped
}

// DeriveStatus computes the single-status summary of a completion list:
// completed wins over failed, failed wins over skipped.
func DeriveStatus(completions []Completion) Status {
	derived := StatusSkipped
	for _, c := range completions {
		switch c.Status {
		case StatusCompleted:
			return StatusCompleted
		case StatusFailed:
			derived = StatusFailed
		}
	}
	return derived
}

func (e *Entry) recompute() {
	if len(e.Completions) > 0 {
		e.Status = DeriveStatus(e.Completions)
	}
	e.UpdatedAt = time.Now().UTC()
}

// SetStatus overwrites the stored status and notes. This is the
// single-completion write path; the completions list is left alone and, if
// non-empty, still wins on the next completion mutation.
func (e *Entry) SetStatus(status Status, notes string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	e.Status = status
	e.Notes = notes
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// AddCompletion appends a completion stamped now and rederives the status.
func (e *Entry) AddCompletion(status Status, notes string) (*Completion, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	c := Completion{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Status:    status,
		Notes:     notes,
	}
	e.Completions = append(e.Completions, c)
	e.recompute()
	return &c, nil
}

// RemoveCompletion deletes the completion with the given id and rederives
// the status. Removing an unknown id is a no-op and reports false.
func (e *Entry) RemoveCompletion(completionID string) bool {
	for i, c := range e.Completions {
		if c.ID == completionID {
			e.Completions = append(e.Completions[:i], e.Completions[i+1:]...)
			e.recompute()
			return true
		}
	}
	return false
}

// UpdateCompletion overwrites status and notes of the completion with the
// given id; the timestamp is immutable. Unknown ids are a no-op (false).
func (e *Entry) UpdateCompletion(completionID string, status Status, notes string) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	for i := range e.Completions {
		if e.Completions[i].ID == completionID {
			e.Completions[i].Status = status
			e.Completions[i].Notes = notes
			e.recompute()
			return true, nil
		}
	}
	return false, nil
}
