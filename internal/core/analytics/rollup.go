package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

const (
	burnoutDelta = -15
	reboundDelta = 15
	reboundFloor = 40
	weeklyChunk  = 7
)

// habitYear accumulates one habit's pro-rated tallies across the year.
type habitYear struct {
	tally
	quarters [4]float64
}

// Annual rolls the viewed year up month by month.
func (e *Engine) Annual(view domain.ViewWindow) domain.AnnualStats {
	year := view.Year
	stats := domain.AnnualStats{Year: year}

	acc := make(map[string]*habitYear, len(e.habits))
	for _, h := range e.habits {
		acc[h.ID] = &habitYear{}
	}

	var yearTally tally
	for m := 0; m < 12; m++ {
		summary, elapsed := e.monthSummary(year, m, acc)
		stats.MonthlySummaries[m] = summary
		stats.ActiveDays += summary.ActiveDays
		yearTally.add(elapsed)
	}
	applySignals(stats.MonthlySummaries[:])

	stats.TotalCompletions = yearTally.completed
	stats.TotalPossible = yearTally.possible
	stats.ConsistencyRate = yearTally.rate()
	stats.StrongestMonth = strongestMonth(stats.MonthlySummaries[:])
	stats.Momentum = momentum(stats.MonthlySummaries[:], stats.ConsistencyRate)

	ranks := make([]domain.HabitRank, 0, len(e.habits))
	for _, h := range e.habits {
		hy := acc[h.ID]
		r := newRank(h, hy.tally)
		r.Quarters = hy.quarters
		r.Badge = badgeFor(r)
		if r.Completed > 0 {
			stats.ActiveHabitsCount++
		}
		ranks = append(ranks, r)
	}
	sortRanks(ranks)
	stats.TopHabits = ranks
	stats.FadingHabit = fadingHabit(ranks)
	stats.NeglectedHabit = e.neglectedHabit(ranks)

	stats.CurrentStreak, stats.MaxStreak = e.YearStreak(year)
	stats.HabitStreaks = orderStreaks(e.HabitStreaks(year), ranks)
	stats.LongestHabitStreak = longestStreak(stats.HabitStreaks)

	stats.WeekendRate, stats.WeekdayRate = e.weekSplit(year)
	stats.AllTimeBest = e.AllTimeBest(view.StartOfWeek)

	return stats
}

// monthSummary builds one month and feeds each habit's pro-rated tally into
// acc. It returns the month's pro-rated tally as well.
//
// Rate divides by every due day of the month, ProRatedRate only by the
// elapsed ones, so the two differ for the month containing today.
func (e *Engine) monthSummary(year, monthIndex int, acc map[string]*habitYear) (domain.MonthlySummary, tally) {
	from, to := MonthStart(year, monthIndex), MonthEnd(year, monthIndex)
	days := DaysInMonth(year, monthIndex)

	summary := domain.MonthlySummary{
		MonthIndex: monthIndex,
		IsCurrent:  e.today.Year() == year && int(e.today.Month())-1 == monthIndex,
		IsFuture:   from.After(e.today),
	}

	var full, elapsed tally
	ranks := make([]domain.HabitRank, 0, len(e.habits))
	for _, h := range e.habits {
		f := e.tallyHabit(h, from, to, false, nil)
		p := e.tallyHabit(h, from, to, true, nil)
		full.add(f)
		elapsed.add(p)

		if hy, ok := acc[h.ID]; ok {
			hy.add(p)
			hy.quarters[Quarter(monthIndex)] += p.completed
		}
		ranks = append(ranks, newRank(h, f))
	}
	sortRanks(ranks)

	summary.Completed = full.completed
	summary.Total = full.possible
	summary.Rate = full.rate()
	summary.ProRatedRate = elapsed.rate()
	summary.TopHabit = topOf(ranks)

	summary.Days = make([]domain.DayCell, 0, days)
	eachDay(from, to, func(d time.Time) {
		cell := e.dayCell(d)
		summary.Days = append(summary.Days, cell)

		if e.anyDone(d) {
			summary.ActiveDays++
		}
		if !e.isFuture(d) && cell.TotalPossible > 0 && cell.HabitsCompleted == cell.TotalPossible {
			summary.PerfectDays++
		}
	})

	summary.Consistency = percent(float64(summary.ActiveDays), float64(days))
	summary.MaxStreak = e.globalStreak(from, to).longest
	summary.WeeklyRates = weeklyRates(summary.Days)

	return summary, elapsed
}

// dayCell counts due fixed habits under the future rule. A flexible habit
// only shows up on days it was completed, on both sides of the ratio.
func (e *Engine) dayCell(d time.Time) domain.DayCell {
	key := DateKey(d)
	cell := domain.DayCell{Date: key}
	future := e.isFuture(d)

	for _, h := range e.habits {
		done := e.ledger.Done(h.ID, key)
		if isFlexible(h) {
			if done {
				cell.TotalPossible++
				cell.HabitsCompleted++
			}
			continue
		}
		if !isDue(h, d) || (future && !done) {
			continue
		}
		cell.TotalPossible++
		if done {
			cell.HabitsCompleted++
		}
	}

	if dl, ok := e.dayLogs[key]; ok {
		cell.Mood = dl.Mood
		cell.HasJournalEntry = dl.HasJournalEntry
	}
	return cell
}

// weeklyRates chunks the month every 7 days from the 1st; the last chunk
// may be shorter.
func weeklyRates(days []domain.DayCell) []float64 {
	rates := make([]float64, 0, (len(days)+weeklyChunk-1)/weeklyChunk)
	for start := 0; start < len(days); start += weeklyChunk {
		end := min(start+weeklyChunk, len(days))
		var completed, possible int
		for _, c := range days[start:end] {
			completed += c.HabitsCompleted
			possible += c.TotalPossible
		}
		rates = append(rates, percent(float64(completed), float64(possible)))
	}
	return rates
}

// applySignals sets Delta and at most one Signal on every month but the first.
func applySignals(months []domain.MonthlySummary) {
	var best float64
	for _, m := range months {
		best = max(best, m.Rate)
	}

	for i := 1; i < len(months); i++ {
		cur, prev := &months[i], months[i-1]

		rate := cur.Rate
		if cur.IsCurrent {
			rate = cur.ProRatedRate
		}
		delta := rate - prev.Rate
		cur.Delta = &delta

		switch {
		case cur.Rate == best && cur.Rate > 0:
			cur.Signal = domain.SignalBestFocusMonth
		case !cur.IsFuture && !cur.IsCurrent && cur.Total > 0 && delta < burnoutDelta:
			cur.Signal = domain.SignalBurnoutDip
		case delta > reboundDelta && prev.Rate < reboundFloor:
			cur.Signal = domain.SignalReboundMonth
		}
	}
}

func strongestMonth(months []domain.MonthlySummary) *domain.StrongestMonth {
	var found *domain.StrongestMonth
	for _, m := range months {
		if m.Rate > 0 && (found == nil || m.Rate > found.Rate) {
			found = &domain.StrongestMonth{MonthIndex: m.MonthIndex, Rate: m.Rate}
		}
	}
	return found
}

// weekSplit returns weekend and weekday rates over the year, with the same
// future rule and flexible cap as the monthly rollup.
func (e *Engine) weekSplit(year int) (weekend, weekday float64) {
	from, to := Date(year, time.January, 1), Date(year, time.December, 31)
	notWeekend := func(d time.Time) bool { return !IsWeekend(d) }

	var we, wd tally
	for _, h := range e.habits {
		we.add(e.tallyHabit(h, from, to, true, IsWeekend))
		wd.add(e.tallyHabit(h, from, to, true, notWeekend))
	}
	return we.rate(), wd.rate()
}

// orderStreaks lists habit streaks in ranking order.
func orderStreaks(streaks []domain.HabitStreak, ranks []domain.HabitRank) []domain.HabitStreak {
	byID := make(map[string]domain.HabitStreak, len(streaks))
	for _, s := range streaks {
		byID[s.HabitID] = s
	}

	ordered := make([]domain.HabitStreak, 0, len(streaks))
	for _, r := range ranks {
		if s, ok := byID[r.HabitID]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func longestStreak(streaks []domain.HabitStreak) *domain.HabitStreak {
	var found *domain.HabitStreak
	for i := range streaks {
		if streaks[i].Longest > 0 && (found == nil || streaks[i].Longest > found.Longest) {
			s := streaks[i]
			found = &s
		}
	}
	return found
}
