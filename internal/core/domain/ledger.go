package domain

import (
	"sort"
	"time"
)

// Ledger maps habit id to the set of date keys ("2006-01-02") marked complete.
// A missing key means "not completed".
type Ledger map[string]map[string]bool

func NewLedger() Ledger {
	return make(Ledger)
}

// LedgerFromEntries collapses persisted entries into a ledger. Soft-deleted
// rows are ignored and duplicates on the same date count once.
func LedgerFromEntries(entries []*HabitEntry) Ledger {
	l := NewLedger()
	for _, e := range entries {
		if e == nil || e.DeletedAt != nil {
			continue
		}
		l.Mark(e.HabitID, e.DateKey())
	}
	return l
}

// Mark is idempotent.
func (l Ledger) Mark(habitID, dateKey string) {
	days, ok := l[habitID]
	if !ok {
		days = make(map[string]bool)
		l[habitID] = days
	}
	days[dateKey] = true
}

func (l Ledger) Done(habitID, dateKey string) bool {
	return l[habitID][dateKey]
}

func (l Ledger) DoneOn(habitID string, day time.Time) bool {
	return l.Done(habitID, day.Format(DateKeyLayout))
}

// LastCompletion returns the latest marked date not after notAfter.
func (l Ledger) LastCompletion(habitID string, notAfter time.Time) (time.Time, bool) {
	limit := notAfter.Format(DateKeyLayout)

	var last string
	for key, done := range l[habitID] {
		if !done || key > limit {
			continue
		}
		if key > last {
			last = key
		}
	}
	if last == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(DateKeyLayout, last)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Keys returns the marked date keys of a habit in ascending order.
func (l Ledger) Keys(habitID string) []string {
	keys := make([]string, 0, len(l[habitID]))
	for key, done := range l[habitID] {
		if done {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// DayLog carries per-date data the engine forwards without interpreting it.
type DayLog struct {
	Date            string `json:"date" db:"log_date"`
	Mood            *int   `json:"mood,omitempty" db:"mood"`
	HasJournalEntry bool   `json:"has_journal_entry" db:"has_journal_entry"`
}

// DayLogs is keyed by date key.
type DayLogs map[string]DayLog

func DayLogsFrom(logs []DayLog) DayLogs {
	out := make(DayLogs, len(logs))
	for _, l := range logs {
		out[l.Date] = l
	}
	return out
}
