package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-insights/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newHabit(id, title string, s domain.Schedule) domain.Habit {
	return domain.Habit{ID: id, UserID: "u1", Title: title, Schedule: s}
}

func fixedDays(t *testing.T, days ...int) domain.Schedule {
	t.Helper()
	s, err := domain.FixedDays(days...)
	require.NoError(t, err)
	return s
}

func weeklyTarget(t *testing.T, n int) domain.Schedule {
	t.Helper()
	s, err := domain.WeeklyTarget(n)
	require.NoError(t, err)
	return s
}

// markRange marks every date in [from, to].
func markRange(l domain.Ledger, habitID string, from, to time.Time) {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		l.Mark(habitID, d.Format(domain.DateKeyLayout))
	}
}

func mark(l domain.Ledger, habitID string, days ...time.Time) {
	for _, d := range days {
		l.Mark(habitID, d.Format(domain.DateKeyLayout))
	}
}

func newEngine(habits []domain.Habit, l domain.Ledger, now time.Time) *analytics.Engine {
	return analytics.NewEngine(analytics.Input{Habits: habits, Ledger: l, Now: now})
}

func view(year, monthIndex int) domain.ViewWindow {
	return domain.ViewWindow{Year: year, MonthIndex: monthIndex, StartOfWeek: domain.WeekStartsMonday}
}
