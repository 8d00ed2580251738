// Package analytics turns a snapshot of habits and completions into day,
// week, month and year statistics.
//
// Every computation is a pure function of its Input: nothing here reads the
// wall clock, performs I/O or mutates the snapshot, so an Engine may be
// shared by concurrent readers and results may be memoized on
// (habits, ledger, view, now).
package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

type Input struct {
	Habits  []domain.Habit
	Ledger  domain.Ledger
	DayLogs domain.DayLogs
	Now     time.Time
}

type Engine struct {
	habits  []domain.Habit
	ledger  domain.Ledger
	dayLogs domain.DayLogs
	today   time.Time
}

func NewEngine(in Input) *Engine {
	habits := make([]domain.Habit, len(in.Habits))
	copy(habits, in.Habits)

	ledger := in.Ledger
	if ledger == nil {
		ledger = domain.NewLedger()
	}

	return &Engine{
		habits:  habits,
		ledger:  ledger,
		dayLogs: in.DayLogs,
		today:   Day(in.Now),
	}
}

func (e *Engine) Today() time.Time {
	return e.today
}

// isFuture: strictly after today.
func (e *Engine) isFuture(day time.Time) bool {
	return day.After(e.today)
}

func (e *Engine) done(h domain.Habit, day time.Time) bool {
	return e.ledger.DoneOn(h.ID, day)
}

// anyDone ignores due-ness: one completion of any habit makes the day active.
func (e *Engine) anyDone(day time.Time) bool {
	key := DateKey(day)
	for _, h := range e.habits {
		if e.ledger.Done(h.ID, key) {
			return true
		}
	}
	return false
}

// ViewWeekStart is the first day of the week selected by the view,
// counted from the week containing today.
func (e *Engine) ViewWeekStart(view domain.ViewWindow) time.Time {
	return WeekStart(e.today, view.StartOfWeek).AddDate(0, 0, 7*view.WeekOffset)
}

// Report runs every rollup of the view.
func (e *Engine) Report(view domain.ViewWindow) *domain.Report {
	weekStart := e.ViewWeekStart(view)

	return &domain.Report{
		View:          view,
		Today:         DateKey(e.today),
		Week:          e.WeeklyStats(weekStart),
		WeekProgress:  e.WeekProgress(weekStart),
		Month:         e.DailyStats(MonthStart(view.Year, view.MonthIndex), MonthEnd(view.Year, view.MonthIndex)),
		MonthProgress: e.MonthProgress(view.Year, view.MonthIndex),
		Annual:        e.Annual(view),
		Comparison:    e.Compare(view),
	}
}
