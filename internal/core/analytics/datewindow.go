package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

const monthKeyLayout = "2006-01"

// Day drops the clock part of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DateKey(day time.Time) string {
	return day.Format(domain.DateKeyLayout)
}

func MonthKey(day time.Time) string {
	return day.Format(monthKeyLayout)
}

// DaysInMonth takes a zero based month index.
func DaysInMonth(year, monthIndex int) int {
	return time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

func MonthStart(year, monthIndex int) time.Time {
	return Date(year, time.Month(monthIndex+1), 1)
}

func MonthEnd(year, monthIndex int) time.Time {
	return Date(year, time.Month(monthIndex+1), DaysInMonth(year, monthIndex))
}

func PreviousMonth(year, monthIndex int) (int, int) {
	if monthIndex == 0 {
		return year - 1, 11
	}
	return year, monthIndex - 1
}

// WeekStart returns the first day of the week containing day.
func WeekStart(day time.Time, startOfWeek domain.StartOfWeek) time.Time {
	d := Day(day)
	shift := (int(d.Weekday()) - int(startOfWeek.Weekday()) + 7) % 7
	return d.AddDate(0, 0, -shift)
}

// WeekKey groups dates by the date key of their week start.
func WeekKey(day time.Time, startOfWeek domain.StartOfWeek) string {
	return DateKey(WeekStart(day, startOfWeek))
}

// Quarter buckets months 0-2, 3-5, 6-8 and 9-11.
func Quarter(monthIndex int) int {
	return monthIndex / 3
}

func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// eachDay visits every date in [from, to].
func eachDay(from, to time.Time, fn func(day time.Time)) {
	for d := Day(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func daysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
