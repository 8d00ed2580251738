package analytics

import "github.com/comitanigiacomo/kanso-insights/internal/core/domain"

// Compare computes period-over-period deltas for the view: the viewed week
// against the week before, and the viewed month against the calendar month
// before it (January compares with December of the previous year).
func (e *Engine) Compare(view domain.ViewWindow) domain.Comparison {
	weekStart := e.ViewWeekStart(view)
	currentWeek := e.WeekProgress(weekStart)
	previousWeek := e.WeekProgress(weekStart.AddDate(0, 0, -7))

	prevYear, prevMonth := PreviousMonth(view.Year, view.MonthIndex)
	currentMonth := e.MonthProgress(view.Year, view.MonthIndex)
	previousMonth := e.MonthProgress(prevYear, prevMonth)

	return domain.Comparison{
		CurrentWeek:   currentWeek,
		PreviousWeek:  previousWeek,
		WeekDelta:     currentWeek.Percentage - previousWeek.Percentage,
		CurrentMonth:  currentMonth,
		PreviousMonth: previousMonth,
		MonthDelta:    currentMonth.Percentage - previousMonth.Percentage,
	}
}
