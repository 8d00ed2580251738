package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

// isDue never holds for flexible habits: they only take part in
// week, month and year possible counts.
func isDue(h domain.Habit, day time.Time) bool {
	return h.Schedule.IsDue(day)
}

func isFlexible(h domain.Habit) bool {
	return h.Schedule.IsFlexible()
}

// proRatedPossible spreads a weekly target over a period of the given length.
func proRatedPossible(target, days int) float64 {
	return float64(target) / 7 * float64(days)
}

// capFlexible is the month and year level cap: raw completions are clipped
// to the pro-rated possible value of the whole period at once.
func capFlexible(target, actual, days int) tally {
	p := proRatedPossible(target, days)
	return tally{completed: min(float64(actual), p), possible: p}
}
