package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

func TestLedger_Mark(t *testing.T) {
	l := domain.NewLedger()

	l.Mark("h1", "2024-01-02")
	l.Mark("h1", "2024-01-02")
	l.Mark("h1", "2024-01-01")

	assert.True(t, l.Done("h1", "2024-01-02"))
	assert.False(t, l.Done("h1", "2024-01-03"))
	assert.False(t, l.Done("unknown", "2024-01-02"))
	assert.True(t, l.DoneOn("h1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, l.Keys("h1"))
	assert.Empty(t, l.Keys("unknown"))
	_, touched := l["unknown"]
	assert.False(t, touched, "reads must not create habit buckets")
}

func TestLedgerFromEntries(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	deletedAt := day.Add(time.Hour)

	live := domain.NewHabitEntry("h1", "u1", day)
	dup := domain.NewHabitEntry("h1", "u1", day)
	other := domain.NewHabitEntry("h2", "u1", day.AddDate(0, 0, 1))
	removed := domain.NewHabitEntry("h2", "u1", day)
	removed.DeletedAt = &deletedAt

	l := domain.LedgerFromEntries([]*domain.HabitEntry{live, dup, nil, other, removed})

	assert.Equal(t, []string{"2024-03-10"}, l.Keys("h1"))
	assert.Equal(t, []string{"2024-03-11"}, l.Keys("h2"), "soft-deleted entries are ignored")
}

func TestLedger_LastCompletion(t *testing.T) {
	l := domain.NewLedger()
	l.Mark("h1", "2024-01-05")
	l.Mark("h1", "2024-02-01")
	l.Mark("h1", "2024-03-01")

	last, ok := l.LastCompletion("h1", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), last)

	last, ok = l.LastCompletion("h1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", last.Format(domain.DateKeyLayout), "the bound is inclusive")

	_, ok = l.LastCompletion("h1", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	_, ok = l.LastCompletion("missing", time.Now())
	assert.False(t, ok)
}

func TestDayLogsFrom(t *testing.T) {
	mood := 4
	logs := domain.DayLogsFrom([]domain.DayLog{
		{Date: "2024-01-01", Mood: &mood},
		{Date: "2024-01-02", HasJournalEntry: true},
	})

	require.Len(t, logs, 2)
	assert.Equal(t, 4, *logs["2024-01-01"].Mood)
	assert.True(t, logs["2024-01-02"].HasJournalEntry)
	assert.Nil(t, logs["2024-01-02"].Mood)
}
