package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule kind (must be every_day, fixed_days, or weekly_target)")
	ErrInvalidWeekdays = errors.New("invalid weekdays (must be 0-6)")
	ErrEmptyWeekdays   = errors.New("fixed_days schedule needs at least one weekday")
	ErrInvalidTarget   = errors.New("weekly target must be between 1 and 7")
)

type ScheduleKind string

const (
	ScheduleEveryDay     ScheduleKind = "every_day"
	ScheduleFixedDays    ScheduleKind = "fixed_days"
	ScheduleWeeklyTarget ScheduleKind = "weekly_target"
)

// Schedule is a tagged variant: exactly one of the three policies applies.
// The zero value is not valid, use the constructors.
type Schedule struct {
	Kind         ScheduleKind `json:"kind"`
	Weekdays     []int        `json:"weekdays,omitempty"`
	WeeklyTarget int          `json:"weekly_target,omitempty"`
}

func EveryDay() Schedule {
	return Schedule{Kind: ScheduleEveryDay}
}

func FixedDays(days ...int) (Schedule, error) {
	if len(days) == 0 {
		return Schedule{}, ErrEmptyWeekdays
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return Schedule{}, ErrInvalidWeekdays
		}
	}
	return Schedule{Kind: ScheduleFixedDays, Weekdays: normalizeWeekdays(days)}, nil
}

// WeeklyTarget asks for count completions per week on any days. Targets above
// 7 are rejected since a week has only seven days to complete them in.
func WeeklyTarget(count int) (Schedule, error) {
	if count < 1 || count > 7 {
		return Schedule{}, ErrInvalidTarget
	}
	return Schedule{Kind: ScheduleWeeklyTarget, WeeklyTarget: count}, nil
}

// ParseSchedule rebuilds a schedule from its persisted columns.
func ParseSchedule(kind string, weekdays []int, target int) (Schedule, error) {
	switch ScheduleKind(kind) {
	case ScheduleEveryDay:
		return EveryDay(), nil
	case ScheduleFixedDays:
		return FixedDays(weekdays...)
	case ScheduleWeeklyTarget:
		return WeeklyTarget(target)
	default:
		return Schedule{}, ErrInvalidSchedule
	}
}

func (s Schedule) Validate() error {
	_, err := ParseSchedule(string(s.Kind), s.Weekdays, s.WeeklyTarget)
	return err
}

// IsFlexible reports whether the habit counts towards a weekly target
// instead of specific weekdays.
func (s Schedule) IsFlexible() bool {
	return s.Kind == ScheduleWeeklyTarget
}

// IsDue is always false for flexible schedules.
func (s Schedule) IsDue(day time.Time) bool {
	switch s.Kind {
	case ScheduleEveryDay:
		return true
	case ScheduleFixedDays:
		wd := int(day.Weekday())
		for _, d := range s.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}
