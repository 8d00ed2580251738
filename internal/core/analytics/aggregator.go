package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

type tally struct {
	completed float64
	possible  float64
}

func (t *tally) add(o tally) {
	t.completed += o.completed
	t.possible += o.possible
}

func (t tally) rate() float64 {
	return percent(t.completed, t.possible)
}

// percent is 0 whenever nothing was possible.
func percent(completed, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return completed / possible * 100
}

// tallyHabit counts completed and possible occurrences of h over [from, to],
// restricted to the days accepted by keep (nil keeps every day).
//
// With prorate set, a future due day only counts when it is already marked,
// in which case it advances both sides. Without it every due day of the
// range is possible. Flexible habits use the period level cap.
func (e *Engine) tallyHabit(h domain.Habit, from, to time.Time, prorate bool, keep func(time.Time) bool) tally {
	if isFlexible(h) {
		days, actual := 0, 0
		eachDay(from, to, func(d time.Time) {
			if keep != nil && !keep(d) {
				return
			}
			done := e.done(h, d)
			if done {
				actual++
			}
			if !prorate || !e.isFuture(d) || done {
				days++
			}
		})
		return capFlexible(h.Schedule.WeeklyTarget, actual, days)
	}

	var t tally
	eachDay(from, to, func(d time.Time) {
		if keep != nil && !keep(d) {
			return
		}
		if !isDue(h, d) {
			return
		}
		done := e.done(h, d)
		if prorate && e.isFuture(d) && !done {
			return
		}
		t.possible++
		if done {
			t.completed++
		}
	})
	return t
}

// DayStat leaves flexible habits out.
func (e *Engine) DayStat(day time.Time) domain.DailyStat {
	day = Day(day)
	stat := domain.DailyStat{Date: DateKey(day)}
	future := e.isFuture(day)

	for _, h := range e.habits {
		if isFlexible(h) || !isDue(h, day) {
			continue
		}
		done := e.done(h, day)
		if future && !done {
			continue
		}
		stat.TotalDue++
		if done {
			stat.Count++
		}
	}
	return stat
}

func (e *Engine) DailyStats(from, to time.Time) []domain.DailyStat {
	var stats []domain.DailyStat
	eachDay(from, to, func(d time.Time) {
		stats = append(stats, e.DayStat(d))
	})
	return stats
}

// WeeklyStats is the 7-day chart rollup. Flexible habits are scanned left to
// right with a running counter: a completion only counts while the counter
// is below the weekly target.
func (e *Engine) WeeklyStats(weekStart time.Time) []domain.WeeklyStat {
	weekStart = Day(weekStart)
	counters := make(map[string]int)
	stats := make([]domain.WeeklyStat, 0, 7)

	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		stat := domain.WeeklyStat{Date: DateKey(d), Weekday: int(d.Weekday())}
		future := e.isFuture(d)

		for _, h := range e.habits {
			done := e.done(h, d)

			if isFlexible(h) {
				if done && counters[h.ID] < h.Schedule.WeeklyTarget {
					counters[h.ID]++
					stat.Completed++
					stat.FlexibleCompleted++
				}
				continue
			}

			if !isDue(h, d) || (future && !done) {
				continue
			}
			stat.Due++
			if done {
				stat.Completed++
			}
		}
		stats = append(stats, stat)
	}
	return stats
}

// WeekProgress sums the chart rollup. Each flexible habit adds its whole
// weekly target to the total.
func (e *Engine) WeekProgress(weekStart time.Time) domain.PeriodProgress {
	weekStart = Day(weekStart)

	var t tally
	for _, stat := range e.WeeklyStats(weekStart) {
		t.completed += float64(stat.Completed)
		t.possible += float64(stat.Due)
	}
	for _, h := range e.habits {
		if isFlexible(h) {
			t.possible += float64(h.Schedule.WeeklyTarget)
		}
	}

	return progress(weekStart, weekStart.AddDate(0, 0, 6), t)
}

func (e *Engine) MonthProgress(year, monthIndex int) domain.PeriodProgress {
	from, to := MonthStart(year, monthIndex), MonthEnd(year, monthIndex)

	var t tally
	for _, h := range e.habits {
		t.add(e.tallyHabit(h, from, to, true, nil))
	}
	return progress(from, to, t)
}

func progress(from, to time.Time, t tally) domain.PeriodProgress {
	return domain.PeriodProgress{
		StartDate:  DateKey(from),
		EndDate:    DateKey(to),
		Completed:  t.completed,
		Total:      t.possible,
		Remaining:  max(0, t.possible-t.completed),
		Percentage: t.rate(),
	}
}
