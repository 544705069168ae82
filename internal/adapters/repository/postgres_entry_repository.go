package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

// PostgresEntryRepository stores one row per (habit, day); the uniqueness
// invariant is a UNIQUE constraint and Upsert rides ON CONFLICT. Completions
// live in a JSONB column so the ordered list round-trips as a unit.
type PostgresEntryRepository struct {
	db *sqlx.DB
}

var _ domain.EntryRepository = (*PostgresEntryRepository)(nil)

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Upsert(ctx context.Context, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (
			id, habit_id, user_id, day, status, notes, completions,
			created_at, updated_at
		) VALUES (
			:id, :habit_id, :user_id, :day, :status, :notes, :completions,
			:created_at, :updated_at
		)
		ON CONFLICT (habit_id, day) DO UPDATE
		SET status = EXCLUDED.status,
		    notes = EXCLUDED.notes,
		    completions = EXCLUDED.completions,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PostgresEntryRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Entry, error) {
	var entry domain.Entry
	query := `SELECT * FROM entries WHERE habit_id = $1 AND day = $2`

	err := r.db.GetContext(ctx, &entry, query, habitID, domain.Day(day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Entry, error) {
	entries := []*domain.Entry{}
	query := `SELECT * FROM entries WHERE habit_id = $1 ORDER BY day ASC`

	if err := r.db.SelectContext(ctx, &entries, query, habitID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresEntryRepository) ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Entry, error) {
	entries := []*domain.Entry{}
	query := `
		SELECT * FROM entries
		WHERE habit_id = $1
		  AND day >= $2
		  AND day <= $3
		ORDER BY day ASC`

	if err := r.db.SelectContext(ctx, &entries, query, habitID, domain.Day(from), domain.Day(to)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresEntryRepository) ListByUserIDRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Entry, error) {
	entries := []*domain.Entry{}
	query := `
		SELECT * FROM entries
		WHERE user_id = $1
		  AND day >= $2
		  AND day <= $3
		ORDER BY day ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID, domain.Day(from), domain.Day(to)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresEntryRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE habit_id = $1`, habitID)
	return err
}
