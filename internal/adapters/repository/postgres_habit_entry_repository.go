package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

var _ domain.HabitEntryRepository = (*PostgresEntryRepository)(nil)

type PostgresEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO habit_entries (id, habit_id, user_id, completion_date, created_at, deleted_at)
		VALUES (:id, :habit_id, :user_id, :completion_date, :created_at, :deleted_at)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return domain.ErrUnknownHabit
		case pgUniqueViolation:
			return domain.ErrEntryConflict
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitEntry, error) {
	var entries []*domain.HabitEntry
	query := `
		SELECT id, habit_id, user_id, completion_date, created_at, deleted_at
		FROM habit_entries
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY completion_date ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return entries, nil
}
