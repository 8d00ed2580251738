package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

type streakRun struct {
	current int
	longest int
}

func (r *streakRun) hit() {
	r.current++
	if r.current > r.longest {
		r.longest = r.current
	}
}

func (r *streakRun) miss() {
	r.current = 0
}

// scanEnd clips a range end to today: future days are never visited.
func (e *Engine) scanEnd(to time.Time) time.Time {
	if to.After(e.today) {
		return e.today
	}
	return to
}

// globalStreak walks [from, to] and counts consecutive days on which any
// habit was completed.
func (e *Engine) globalStreak(from, to time.Time) streakRun {
	var run streakRun
	eachDay(from, e.scanEnd(to), func(d time.Time) {
		if e.anyDone(d) {
			run.hit()
		} else {
			run.miss()
		}
	})
	return run
}

// habitStreak only looks at due days; other days neither extend nor break
// the run. Flexible habits have no due days and always report zero.
func (e *Engine) habitStreak(h domain.Habit, from, to time.Time) streakRun {
	var run streakRun
	eachDay(from, e.scanEnd(to), func(d time.Time) {
		if !isDue(h, d) {
			return
		}
		if e.done(h, d) {
			run.hit()
		} else {
			run.miss()
		}
	})
	return run
}

// YearStreak is bounded to the given year. Current is only meaningful as
// "current" when the year contains today.
func (e *Engine) YearStreak(year int) (current, longest int) {
	run := e.globalStreak(Date(year, time.January, 1), Date(year, time.December, 31))
	return run.current, run.longest
}

func (e *Engine) HabitStreaks(year int) []domain.HabitStreak {
	from, to := Date(year, time.January, 1), Date(year, time.December, 31)

	streaks := make([]domain.HabitStreak, 0, len(e.habits))
	for _, h := range e.habits {
		run := e.habitStreak(h, from, to)
		streaks = append(streaks, domain.HabitStreak{
			HabitID: h.ID,
			Title:   h.Title,
			Current: run.current,
			Longest: run.longest,
		})
	}
	return streaks
}
