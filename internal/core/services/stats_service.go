package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-insights/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

// RefreshQueue schedules a background recomputation for a user.
type RefreshQueue interface {
	Enqueue(userID string) bool
}

// habitListInvalidator is implemented by repositories that keep their own cache.
type habitListInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type StatsService struct {
	habitRepo   domain.HabitRepository
	entryRepo   domain.HabitEntryRepository
	dayLogRepo  domain.DayLogRepository
	cache       domain.ReportCache
	clock       domain.Clock
	startOfWeek domain.StartOfWeek
	queue       RefreshQueue
}

// NewStatsService wires the report pipeline. cache may be nil, which disables
// memoization.
func NewStatsService(
	habitRepo domain.HabitRepository,
	entryRepo domain.HabitEntryRepository,
	dayLogRepo domain.DayLogRepository,
	cache domain.ReportCache,
	clock domain.Clock,
	startOfWeek domain.StartOfWeek,
) *StatsService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if startOfWeek == "" {
		startOfWeek = domain.WeekStartsMonday
	}
	return &StatsService{
		habitRepo:   habitRepo,
		entryRepo:   entryRepo,
		dayLogRepo:  dayLogRepo,
		cache:       cache,
		clock:       clock,
		startOfWeek: startOfWeek,
	}
}

// SetRefreshQueue attaches the background worker used by Invalidate.
func (s *StatsService) SetRefreshQueue(q RefreshQueue) {
	s.queue = q
}

// DefaultView is the view containing today with the configured week start.
func (s *StatsService) DefaultView() domain.ViewWindow {
	return domain.DefaultView(s.clock.Now(), s.startOfWeek)
}

func (s *StatsService) StartOfWeek() domain.StartOfWeek {
	return s.startOfWeek
}

func (s *StatsService) Today() time.Time {
	return analytics.Day(s.clock.Now())
}

// engine loads the user's snapshot. Habits archived before the viewed year
// are left out of the roster.
func (s *StatsService) engine(ctx context.Context, userID string, year int, now time.Time) (*analytics.Engine, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.WithField("user_id", userID).Errorf("failed to list habits: %v", err)
		return nil, fmt.Errorf("stats service: list habits: %w", err)
	}

	entries, err := s.entryRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.WithField("user_id", userID).Errorf("failed to list entries: %v", err)
		return nil, fmt.Errorf("stats service: list entries: %w", err)
	}

	var dayLogs domain.DayLogs
	if s.dayLogRepo != nil {
		logs, err := s.dayLogRepo.ListByUserID(ctx, userID)
		if err != nil {
			log.WithField("user_id", userID).Errorf("failed to list day logs: %v", err)
			return nil, fmt.Errorf("stats service: list day logs: %w", err)
		}
		dayLogs = domain.DayLogsFrom(logs)
	}

	roster := make([]domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h != nil && h.ActiveIn(year) {
			roster = append(roster, *h)
		}
	}

	return analytics.NewEngine(analytics.Input{
		Habits:  roster,
		Ledger:  domain.LedgerFromEntries(entries),
		DayLogs: dayLogs,
		Now:     now,
	}), nil
}

func cacheKey(userID string, version int64, view domain.ViewWindow, today time.Time) string {
	return fmt.Sprintf("%s:v%d:%d:%d:%d:%s:%s",
		userID, version, view.Year, view.MonthIndex, view.WeekOffset, view.StartOfWeek, analytics.DateKey(today))
}

// Report returns every rollup for the view, memoized per user data version
// and calendar day.
func (s *StatsService) Report(ctx context.Context, userID string, view domain.ViewWindow) (*domain.Report, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	logger := log.WithFields(log.Fields{"user_id": userID, "year": view.Year, "month": view.MonthIndex})

	key := ""
	if s.cache != nil {
		version, err := s.cache.Version(ctx, userID)
		if err != nil {
			logger.Warnf("report cache unavailable: %v", err)
		} else {
			key = cacheKey(userID, version, view, analytics.Day(now))
			cached, ok, err := s.cache.Get(ctx, key)
			switch {
			case err != nil:
				logger.Warnf("report cache read failed: %v", err)
			case ok:
				logger.Debug("report cache hit")
				return cached, nil
			default:
				logger.Debug("report cache miss")
			}
		}
	}

	e, err := s.engine(ctx, userID, view.Year, now)
	if err != nil {
		return nil, err
	}

	report := e.Report(view)
	report.GeneratedAt = now.UTC()

	if key != "" {
		if err := s.cache.Set(ctx, key, report); err != nil {
			logger.Warnf("report cache write failed: %v", err)
		}
	}

	return report, nil
}

func (s *StatsService) Annual(ctx context.Context, userID string, view domain.ViewWindow) (*domain.AnnualStats, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	e, err := s.engine(ctx, userID, view.Year, s.clock.Now())
	if err != nil {
		return nil, err
	}
	annual := e.Annual(view)
	return &annual, nil
}

func (s *StatsService) Compare(ctx context.Context, userID string, view domain.ViewWindow) (*domain.Comparison, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	e, err := s.engine(ctx, userID, view.Year, s.clock.Now())
	if err != nil {
		return nil, err
	}
	cmp := e.Compare(view)
	return &cmp, nil
}

// Week covers the week selected by the view's offset and week start. The
// roster is the one of the year the week starts in.
func (s *StatsService) Week(ctx context.Context, userID string, view domain.ViewWindow) (*domain.WeekReport, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	weekStart := analytics.WeekStart(now, view.StartOfWeek).AddDate(0, 0, 7*view.WeekOffset)

	e, err := s.engine(ctx, userID, weekStart.Year(), now)
	if err != nil {
		return nil, err
	}
	return &domain.WeekReport{
		Days:     e.WeeklyStats(weekStart),
		Progress: e.WeekProgress(weekStart),
	}, nil
}

func (s *StatsService) Month(ctx context.Context, userID string, view domain.ViewWindow) (*domain.MonthReport, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	e, err := s.engine(ctx, userID, view.Year, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &domain.MonthReport{
		Days:     e.DailyStats(analytics.MonthStart(view.Year, view.MonthIndex), analytics.MonthEnd(view.Year, view.MonthIndex)),
		Progress: e.MonthProgress(view.Year, view.MonthIndex),
	}, nil
}

func (s *StatsService) Day(ctx context.Context, userID string, day time.Time) (*domain.DailyStat, error) {
	e, err := s.engine(ctx, userID, day.Year(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	stat := e.DayStat(analytics.Day(day))
	return &stat, nil
}

// Invalidate orphans the user's cached reports and schedules a warm-up of
// the default view.
func (s *StatsService) Invalidate(ctx context.Context, userID string) error {
	if inv, ok := s.habitRepo.(habitListInvalidator); ok {
		inv.Invalidate(ctx, userID)
	}

	if s.cache != nil {
		if err := s.cache.Bump(ctx, userID); err != nil {
			log.WithField("user_id", userID).Warnf("failed to bump report cache version: %v", err)
			return fmt.Errorf("stats service: invalidate: %w", err)
		}
	}

	if s.queue != nil {
		s.queue.Enqueue(userID)
	}
	return nil
}

// Warm builds and caches the default view so the next request is a hit.
func (s *StatsService) Warm(ctx context.Context, userID string) error {
	_, err := s.Report(ctx, userID, s.DefaultView())
	return err
}
