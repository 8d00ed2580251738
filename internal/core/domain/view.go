package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidView        = errors.New("invalid view window")
	ErrInvalidStartOfWeek = errors.New("invalid start of week (must be monday or sunday)")
)

type StartOfWeek string

const (
	WeekStartsMonday StartOfWeek = "monday"
	WeekStartsSunday StartOfWeek = "sunday"
)

func ParseStartOfWeek(s string) (StartOfWeek, error) {
	switch StartOfWeek(strings.ToLower(strings.TrimSpace(s))) {
	case WeekStartsMonday:
		return WeekStartsMonday, nil
	case WeekStartsSunday:
		return WeekStartsSunday, nil
	default:
		return "", ErrInvalidStartOfWeek
	}
}

func (s StartOfWeek) Weekday() time.Weekday {
	if s == WeekStartsSunday {
		return time.Sunday
	}
	return time.Monday
}

// ViewWindow selects the day, week, month and year to summarize.
// MonthIndex is zero based (0 = January).
type ViewWindow struct {
	Year        int         `json:"year"`
	MonthIndex  int         `json:"month_index"`
	WeekOffset  int         `json:"week_offset"`
	StartOfWeek StartOfWeek `json:"start_of_week"`
}

// DefaultView looks at the month and week containing now.
func DefaultView(now time.Time, startOfWeek StartOfWeek) ViewWindow {
	return ViewWindow{
		Year:        now.Year(),
		MonthIndex:  int(now.Month()) - 1,
		StartOfWeek: startOfWeek,
	}
}

func (v ViewWindow) Validate() error {
	if v.MonthIndex < 0 || v.MonthIndex > 11 {
		return fmt.Errorf("%w: month index %d out of range", ErrInvalidView, v.MonthIndex)
	}
	if v.Year < 1 || v.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidView, v.Year)
	}
	if _, err := ParseStartOfWeek(string(v.StartOfWeek)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidView, err)
	}
	return nil
}
