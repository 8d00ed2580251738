package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

const (
	neglectAfterDays   = 14
	neglectMinComplete = 5
)

// sortRanks orders by completed count descending, then title ascending
// ignoring case, then id ascending. Downstream output depends on this order.
func sortRanks(ranks []domain.HabitRank) {
	sort.SliceStable(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		if a.Completed != b.Completed {
			return a.Completed > b.Completed
		}
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		return a.HabitID < b.HabitID
	})
}

func newRank(h domain.Habit, t tally) domain.HabitRank {
	return domain.HabitRank{
		HabitID:   h.ID,
		Title:     h.Title,
		Color:     h.Color,
		Completed: t.completed,
		Possible:  t.possible,
		Rate:      t.rate(),
	}
}

// topOf returns the first ranked habit with at least one completion.
func topOf(ranks []domain.HabitRank) *domain.HabitRank {
	if len(ranks) == 0 || ranks[0].Completed <= 0 {
		return nil
	}
	top := ranks[0]
	return &top
}

func badgeFor(r domain.HabitRank) string {
	if r.Completed <= 0 {
		return ""
	}
	q1, q4 := r.Quarters[0], r.Quarters[3]
	switch {
	case r.Rate > 85:
		return domain.BadgeMostConsistent
	case r.Rate >= 50:
		return domain.BadgeIdentityDriver
	case q4 > 1.5*q1 && q4 > 5:
		return domain.BadgeHighestGrowth
	case r.Completed > 15:
		return domain.BadgeMostAttempted
	default:
		return domain.BadgeActiveHabit
	}
}

// isFading compares the last quarter's pace with the first half's pace.
func isFading(r domain.HabitRank) bool {
	early := r.Quarters[0] + r.Quarters[1]
	if early <= 10 || r.Possible <= 0 {
		return false
	}
	lateRate := r.Quarters[3] / (r.Possible / 4)
	earlyRate := early / (r.Possible / 2)
	return lateRate < 0.3*earlyRate
}

// fadingHabit expects ranks already sorted, so the first match is the
// fading habit with the most completions.
func fadingHabit(ranks []domain.HabitRank) *domain.HabitRank {
	for _, r := range ranks {
		if isFading(r) {
			found := r
			return &found
		}
	}
	return nil
}

// neglectedHabit picks, outside the top ranked habit, the habit whose last
// completion is the oldest and at least two weeks old.
func (e *Engine) neglectedHabit(ranks []domain.HabitRank) *domain.NeglectedHabit {
	if len(ranks) == 0 {
		return nil
	}

	var found *domain.NeglectedHabit
	var oldest time.Time

	for _, r := range ranks[1:] {
		if r.Completed < neglectMinComplete {
			continue
		}
		last, ok := e.ledger.LastCompletion(r.HabitID, e.today)
		if !ok {
			continue
		}
		since := daysBetween(last, e.today)
		if since < neglectAfterDays {
			continue
		}
		if found == nil || last.Before(oldest) {
			oldest = last
			found = &domain.NeglectedHabit{
				HabitRank:     r,
				LastCompleted: DateKey(last),
				DaysSince:     since,
			}
		}
	}
	return found
}

// momentum averages the two most recent months with a positive rate and
// compares it with the year's consistency rate.
func momentum(months []domain.MonthlySummary, consistencyRate float64) string {
	var sum float64
	n := 0
	for i := len(months) - 1; i >= 0 && n < 2; i-- {
		if months[i].Rate > 0 {
			sum += months[i].Rate
			n++
		}
	}

	var recent float64
	if n > 0 {
		recent = sum / float64(n)
	}

	switch {
	case recent > 1.1*consistencyRate:
		return domain.MomentumAscending
	case recent < 0.8*consistencyRate:
		return domain.MomentumDescending
	default:
		return domain.MomentumStable
	}
}
