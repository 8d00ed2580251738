package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-insights/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
	"github.com/comitanigiacomo/kanso-insights/internal/core/services"
)

type reportOptions struct {
	snapshot    string
	section     string
	year        int
	month       int
	weekOffset  int
	startOfWeek string
	now         string
}

var reportOpts reportOptions

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute a report from a JSON snapshot",
	Long: `Report loads a snapshot of habits and completion dates from disk and
prints the requested rollup as JSON. Nothing is read from or written to
the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), reportOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.snapshot, "snapshot", "", "snapshot JSON file")
	f.StringVar(&reportOpts.section, "section", "report", "report, annual, compare, week or month")
	f.IntVar(&reportOpts.year, "year", 0, "year to view (default: current)")
	f.IntVar(&reportOpts.month, "month", 0, "month to view, 1-12 (default: current)")
	f.IntVar(&reportOpts.weekOffset, "week-offset", 0, "weeks relative to the current one")
	f.StringVar(&reportOpts.startOfWeek, "start-of-week", string(domain.WeekStartsMonday), "monday or sunday")
	f.StringVar(&reportOpts.now, "now", "", "evaluation time, RFC3339 or YYYY-MM-DD (default: system clock)")
	_ = reportCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(reportCmd)
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(domain.DateKeyLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: expected RFC3339 or YYYY-MM-DD", raw)
	}
	return t, nil
}

func runReport(ctx context.Context, opts reportOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	now, err := parseNow(opts.now)
	if err != nil {
		return err
	}
	sow, err := domain.ParseStartOfWeek(opts.startOfWeek)
	if err != nil {
		return err
	}

	snap, err := repository.LoadSnapshotFile(opts.snapshot)
	if err != nil {
		return err
	}
	store, err := repository.NewStoreFromSnapshot(ctx, snap)
	if err != nil {
		return err
	}

	svc := services.NewStatsService(store.Habits, store.Entries, store.DayLogs, nil, &domain.FixedClock{FixedNow: now}, sow)

	view := svc.DefaultView()
	if opts.year != 0 {
		view.Year = opts.year
	}
	if opts.month != 0 {
		if opts.month < 1 || opts.month > 12 {
			return fmt.Errorf("%w: --month must be between 1 and 12", domain.ErrInvalidView)
		}
		view.MonthIndex = opts.month - 1
	}
	view.WeekOffset = opts.weekOffset

	var result any
	switch opts.section {
	case "", "report":
		result, err = svc.Report(ctx, snap.UserID, view)
	case "annual":
		result, err = svc.Annual(ctx, snap.UserID, view)
	case "compare":
		result, err = svc.Compare(ctx, snap.UserID, view)
	case "week":
		result, err = svc.Week(ctx, snap.UserID, view)
	case "month":
		result, err = svc.Month(ctx, snap.UserID, view)
	default:
		return fmt.Errorf("unknown section %q", opts.section)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
