package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

// habitRow mirrors the habits table; the schedule is spread over three columns.
type habitRow struct {
	ID           string        `db:"id"`
	UserID       string        `db:"user_id"`
	Title        string        `db:"title"`
	Color        string        `db:"color"`
	SortOrder    int           `db:"sort_order"`
	ScheduleKind string        `db:"schedule_kind"`
	Weekdays     pq.Int64Array `db:"weekdays"`
	WeeklyTarget int           `db:"weekly_target"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	ArchivedAt   *time.Time    `db:"archived_at"`
}

const habitColumns = `id, user_id, title, color, sort_order, schedule_kind, weekdays, weekly_target, created_at, updated_at, archived_at`

func (row habitRow) toDomain() (*domain.Habit, error) {
	weekdays := make([]int, len(row.Weekdays))
	for i, d := range row.Weekdays {
		weekdays[i] = int(d)
	}

	schedule, err := domain.ParseSchedule(row.ScheduleKind, weekdays, row.WeeklyTarget)
	if err != nil {
		return nil, fmt.Errorf("habit %s has a broken schedule: %w", row.ID, err)
	}

	return &domain.Habit{
		ID:         row.ID,
		UserID:     row.UserID,
		Title:      row.Title,
		Color:      row.Color,
		SortOrder:  row.SortOrder,
		Schedule:   schedule,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		ArchivedAt: row.ArchivedAt,
	}, nil
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (` + habitColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Color, h.SortOrder,
		string(h.Schedule.Kind), pq.Array(h.Schedule.Weekdays), h.Schedule.WeeklyTarget,
		h.CreatedAt, h.UpdatedAt, h.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return row.toDomain()
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var rows []habitRow
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1
        ORDER BY sort_order ASC, created_at ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for _, row := range rows {
		h, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}
