package domain

import "time"

// Signals attached to monthly summaries.
const (
	SignalBestFocusMonth = "Best focus month"
	SignalBurnoutDip     = "Burnout dip"
	SignalReboundMonth   = "Rebound month"
)

// Annual per-habit badges.
const (
	BadgeMostConsistent = "Most Consistent"
	BadgeIdentityDriver = "Identity Driver"
	BadgeHighestGrowth  = "Highest Growth"
	BadgeMostAttempted  = "Most Attempted"
	BadgeActiveHabit    = "Active Habit"
)

const (
	MomentumAscending  = "ascending"
	MomentumDescending = "descending"
	MomentumStable     = "stable"
)

// DailyStat only considers habits bound to weekdays.
type DailyStat struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	TotalDue int    `json:"total_due"`
}

// WeeklyStat is one day of the 7-day chart. Completed includes flexible
// completions until the habit's weekly target is reached.
type WeeklyStat struct {
	Date              string `json:"date"`
	Weekday           int    `json:"weekday"`
	Completed         int    `json:"completed"`
	FlexibleCompleted int    `json:"flexible_completed"`
	Due               int    `json:"due"`
}

type PeriodProgress struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Completed  float64 `json:"completed"`
	Total      float64 `json:"total"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

type DayCell struct {
	Date            string `json:"date"`
	HabitsCompleted int    `json:"habits_completed"`
	TotalPossible   int    `json:"total_possible"`
	Mood            *int   `json:"mood,omitempty"`
	HasJournalEntry bool   `json:"has_journal_entry"`
}

type HabitRank struct {
	HabitID   string     `json:"habit_id"`
	Title     string     `json:"title"`
	Color     string     `json:"color,omitempty"`
	Completed float64    `json:"completed"`
	Possible  float64    `json:"possible"`
	Rate      float64    `json:"rate"`
	Quarters  [4]float64 `json:"quarters"`
	Badge     string     `json:"badge,omitempty"`
}

type MonthlySummary struct {
	MonthIndex   int        `json:"month_index"`
	Completed    float64    `json:"completed"`
	Total        float64    `json:"total"`
	Rate         float64    `json:"rate"`
	ProRatedRate float64    `json:"pro_rated_rate"`
	TopHabit     *HabitRank `json:"top_habit,omitempty"`
	Consistency  float64    `json:"consistency"`
	ActiveDays   int        `json:"active_days"`
	MaxStreak    int        `json:"max_streak"`
	WeeklyRates  []float64  `json:"weekly_rates"`
	PerfectDays  int        `json:"perfect_days"`
	Days         []DayCell  `json:"days"`
	Delta        *float64   `json:"delta,omitempty"`
	Signal       string     `json:"signal,omitempty"`
	IsCurrent    bool       `json:"is_current"`
	IsFuture     bool       `json:"is_future"`
}

type NeglectedHabit struct {
	HabitRank
	LastCompleted string `json:"last_completed"`
	DaysSince     int    `json:"days_since"`
}

type HabitStreak struct {
	HabitID string `json:"habit_id"`
	Title   string `json:"title"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

type BestPeriod struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// AllTimeBest is computed over the whole ledger against the current roster size.
type AllTimeBest struct {
	Week  *BestPeriod `json:"week,omitempty"`
	Month *BestPeriod `json:"month,omitempty"`
}

type StrongestMonth struct {
	MonthIndex int     `json:"month_index"`
	Rate       float64 `json:"rate"`
}

type AnnualStats struct {
	Year               int                `json:"year"`
	TotalCompletions   float64            `json:"total_completions"`
	TotalPossible      float64            `json:"total_possible"`
	MonthlySummaries   [12]MonthlySummary `json:"monthly_summaries"`
	TopHabits          []HabitRank        `json:"top_habits"`
	MaxStreak          int                `json:"max_streak"`
	CurrentStreak      int                `json:"current_streak"`
	StrongestMonth     *StrongestMonth    `json:"strongest_month,omitempty"`
	ConsistencyRate    float64            `json:"consistency_rate"`
	AllTimeBest        AllTimeBest        `json:"all_time_best"`
	WeekendRate        float64            `json:"weekend_rate"`
	WeekdayRate        float64            `json:"weekday_rate"`
	Momentum           string             `json:"momentum"`
	FadingHabit        *HabitRank         `json:"fading_habit,omitempty"`
	NeglectedHabit     *NeglectedHabit    `json:"neglected_habit,omitempty"`
	LongestHabitStreak *HabitStreak       `json:"longest_habit_streak,omitempty"`
	HabitStreaks       []HabitStreak      `json:"habit_streaks"`
	ActiveDays         int                `json:"active_days"`
	ActiveHabitsCount  int                `json:"active_habits_count"`
}

type Comparison struct {
	CurrentWeek   PeriodProgress `json:"current_week"`
	PreviousWeek  PeriodProgress `json:"previous_week"`
	WeekDelta     float64        `json:"week_delta"`
	CurrentMonth  PeriodProgress `json:"current_month"`
	PreviousMonth PeriodProgress `json:"previous_month"`
	MonthDelta    float64        `json:"month_delta"`
}

// Report bundles every rollup of a single view. It is the unit cached per view.
type Report struct {
	View          ViewWindow     `json:"view"`
	Today         string         `json:"today"`
	Week          []WeeklyStat   `json:"week"`
	WeekProgress  PeriodProgress `json:"week_progress"`
	Month         []DailyStat    `json:"month"`
	MonthProgress PeriodProgress `json:"month_progress"`
	Annual        AnnualStats    `json:"annual"`
	Comparison    Comparison     `json:"comparison"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

type WeekReport struct {
	Days     []WeeklyStat   `json:"days"`
	Progress PeriodProgress `json:"progress"`
}

type MonthReport struct {
	Days     []DailyStat    `json:"days"`
	Progress PeriodProgress `json:"progress"`
}
