package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrEntryConflict = errors.New("habit already completed on this date")
	ErrUnknownHabit  = errors.New("referenced habit does not exist")
)

type HabitRepository interface {
	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves all habits associated with a specific user,
	// archived ones included. The roster for a given year is decided by the caller.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)
}

type HabitEntryRepository interface {
	// ListByUserID returns every active completion of the user. All-time
	// lookups need the full history, so there is no date filter.
	ListByUserID(ctx context.Context, userID string) ([]*HabitEntry, error)
}

type DayLogRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]DayLog, error)
}

// ReportCache stores computed reports. Implementations must treat every
// failure as a miss; the caller recomputes.
type ReportCache interface {
	Version(ctx context.Context, userID string) (int64, error)
	Bump(ctx context.Context, userID string) error
	Get(ctx context.Context, key string) (*Report, bool, error)
	Set(ctx context.Context, key string, report *Report) error
}
