package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

var _ domain.DayLogRepository = (*PostgresDayLogRepository)(nil)

type PostgresDayLogRepository struct {
	db *sqlx.DB
}

func NewPostgresDayLogRepository(db *sqlx.DB) *PostgresDayLogRepository {
	return &PostgresDayLogRepository{db: db}
}

func (r *PostgresDayLogRepository) Upsert(ctx context.Context, userID string, log domain.DayLog) error {
	query := `
		INSERT INTO day_logs (user_id, log_date, mood, has_journal_entry)
		VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (user_id, log_date)
		DO UPDATE SET mood = EXCLUDED.mood, has_journal_entry = EXCLUDED.has_journal_entry`

	if _, err := r.db.ExecContext(ctx, query, userID, log.Date, log.Mood, log.HasJournalEntry); err != nil {
		return fmt.Errorf("failed to upsert day log: %w", err)
	}
	return nil
}

func (r *PostgresDayLogRepository) ListByUserID(ctx context.Context, userID string) ([]domain.DayLog, error) {
	var logs []domain.DayLog
	query := `
		SELECT to_char(log_date, 'YYYY-MM-DD') AS log_date, mood, has_journal_entry
		FROM day_logs
		WHERE user_id = $1
		ORDER BY log_date ASC`

	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return logs, nil
}
