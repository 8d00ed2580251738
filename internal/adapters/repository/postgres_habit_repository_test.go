package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "kanso_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "kanso_db"),
	)

	db, err := Connect(dsn, 5, 2)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	require.NoError(t, Migrate(dsn), "Failed to migrate test database")

	cleanup(t, db)
	t.Cleanup(func() {
		cleanup(t, db)
		db.Close()
	})
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE habit_entries, habits, day_logs CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func TestPostgresRepositories_Integration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	habits := NewPostgresHabitRepository(db)
	entries := NewPostgresEntryRepository(db)
	dayLogs := NewPostgresDayLogRepository(db)

	userID := uuid.NewString()
	fixed, err := domain.FixedDays(1, 3, 5)
	require.NoError(t, err)

	gym, err := domain.NewHabit(userID, "Gym", "#FF0000", fixed)
	require.NoError(t, err)
	gym.SortOrder = 2

	read, err := domain.NewHabit(userID, "Read", "", domain.EveryDay())
	require.NoError(t, err)
	read.SortOrder = 1
	read.Archive(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))

	weekly, err := domain.WeeklyTarget(3)
	require.NoError(t, err)
	run, err := domain.NewHabit(userID, "Run", "", weekly)
	require.NoError(t, err)
	run.SortOrder = 3

	t.Run("Create and Get Habit keeps the schedule", func(t *testing.T) {
		require.NoError(t, habits.Create(ctx, gym))
		require.NoError(t, habits.Create(ctx, read))
		require.NoError(t, habits.Create(ctx, run))

		fetched, err := habits.GetByID(ctx, gym.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ScheduleFixedDays, fetched.Schedule.Kind)
		assert.Equal(t, []int{1, 3, 5}, fetched.Schedule.Weekdays)
		assert.Equal(t, "#FF0000", fetched.Color)
		assert.Nil(t, fetched.ArchivedAt)

		flexible, err := habits.GetByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, flexible.Schedule.WeeklyTarget)
	})

	t.Run("List includes archived habits in sort order", func(t *testing.T) {
		list, err := habits.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, read.ID, list[0].ID)
		assert.NotNil(t, list[0].ArchivedAt)
		assert.Equal(t, gym.ID, list[1].ID)
	})

	t.Run("Get missing habit", func(t *testing.T) {
		_, err := habits.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Entries: one per habit per day", func(t *testing.T) {
		day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

		require.NoError(t, entries.Create(ctx, domain.NewHabitEntry(gym.ID, userID, day)))
		require.NoError(t, entries.Create(ctx, domain.NewHabitEntry(run.ID, userID, day)))

		err := entries.Create(ctx, domain.NewHabitEntry(gym.ID, userID, day))
		assert.ErrorIs(t, err, domain.ErrEntryConflict)

		err = entries.Create(ctx, domain.NewHabitEntry(uuid.NewString(), userID, day))
		assert.ErrorIs(t, err, domain.ErrUnknownHabit)
	})

	t.Run("Entries: soft deleted rows are not listed", func(t *testing.T) {
		_, err := db.Exec(`UPDATE habit_entries SET deleted_at = NOW() WHERE habit_id = $1`, run.ID)
		require.NoError(t, err)

		list, err := entries.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2024-01-08", list[0].DateKey())

		ledger := domain.LedgerFromEntries(list)
		assert.True(t, ledger.Done(gym.ID, "2024-01-08"))
	})

	t.Run("Day logs upsert by date", func(t *testing.T) {
		mood := 3
		require.NoError(t, dayLogs.Upsert(ctx, userID, domain.DayLog{Date: "2024-01-08", Mood: &mood}))
		require.NoError(t, dayLogs.Upsert(ctx, userID, domain.DayLog{Date: "2024-01-08", HasJournalEntry: true}))
		require.NoError(t, dayLogs.Upsert(ctx, userID, domain.DayLog{Date: "2024-01-07"}))

		logs, err := dayLogs.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2024-01-07", logs[0].Date)
		assert.Equal(t, "2024-01-08", logs[1].Date)
		assert.Nil(t, logs[1].Mood)
		assert.True(t, logs[1].HasJournalEntry)
	})
}
