package analytics

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

// AllTimeBest scans the whole ledger, not just the viewed year, and counts
// raw completions without any flexible cap. Habits that left the roster still
// contribute their history. Rates divide by the current roster size, even for
// periods when the roster was different.
func (e *Engine) AllTimeBest(startOfWeek domain.StartOfWeek) domain.AllTimeBest {
	weeks := make(map[string]int)
	months := make(map[string]int)

	for habitID := range e.ledger {
		for _, key := range e.ledger.Keys(habitID) {
			d, err := time.Parse(domain.DateKeyLayout, key)
			if err != nil {
				continue
			}
			weeks[WeekKey(d, startOfWeek)]++
			months[MonthKey(d)]++
		}
	}

	roster := len(e.habits)
	var best domain.AllTimeBest

	if key, count, ok := bestOf(weeks); ok {
		best.Week = &domain.BestPeriod{
			Key:   key,
			Count: count,
			Rate:  percent(float64(count), float64(roster*7)),
		}
	}

	if key, count, ok := bestOf(months); ok {
		var days int
		if m, err := time.Parse(monthKeyLayout, key); err == nil {
			days = DaysInMonth(m.Year(), int(m.Month())-1)
		}
		best.Month = &domain.BestPeriod{
			Key:   key,
			Count: count,
			Rate:  percent(float64(count), float64(roster*days)),
		}
	}

	return best
}

// bestOf returns the highest count, the earliest key winning ties.
func bestOf(counts map[string]int) (string, int, bool) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bestKey, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			bestKey, bestCount = k, counts[k]
		}
	}
	return bestKey, bestCount, bestCount > 0
}
