package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	query := `
		INSERT INTO habits (
			id, user_id, title, description, polarity,
			target_per_day, start_date, duration_days,
			color, icon, current_streak, longest_streak,
			created_at, updated_at, archived_at
		) VALUES (
			:id, :user_id, :title, :description, :polarity,
			:target_per_day, :start_date, :duration_days,
			:color, :icon, :current_streak, :longest_streak,
			:created_at, :updated_at, :archived_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, habit)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.db.GetContext(ctx, &habit, `SELECT * FROM habits WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, err
	}
	return &habit, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	query := `
		UPDATE habits
		SET title = :title,
		    description = :description,
		    polarity = :polarity,
		    target_per_day = :target_per_day,
		    start_date = :start_date,
		    duration_days = :duration_days,
		    color = :color,
		    icon = :icon,
		    current_streak = :current_streak,
		    longest_streak = :longest_streak,
		    updated_at = :updated_at,
		    archived_at = :archived_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, habit)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
		UPDATE habits
		SET current_streak = $1,
		    longest_streak = $2,
		    updated_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, current, longest, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}
