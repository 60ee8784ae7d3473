package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	logLocation string
	logSpan     string
	logHome     string
	logOffice   string
	logBreak    string
	logNotes    string
)

var logCmd = &cobra.Command{
	Use:   "log [date]",
	Short: "Log (or replace) a day's work",
	Long: `Log where and when you worked on a day (default today, YYYY-MM-DD).
Logging the same date again replaces the earlier record.

  sj log --location office --span 9:00AM-5:00PM --break 1h
  sj log 2026-10-14 --location hybrid --home 8:30AM-12:00PM --office 1:00PM-5:30PM`,
	Args: cobra.MaximumNArgs(1),
	RunE: withTracker(runLog),
}

func init() {
	logCmd.Flags().StringVar(&logLocation, "location", "office", "Where you worked: home, office or hybrid")
	logCmd.Flags().StringVar(&logSpan, "span", "", "Working span for home/office days, e.g. 9:00AM-5:00PM")
	logCmd.Flags().StringVar(&logHome, "home", "", "Home span of a hybrid day")
	logCmd.Flags().StringVar(&logOffice, "office", "", "Office span of a hybrid day")
	logCmd.Flags().StringVar(&logBreak, "break", "", "Unpaid break, e.g. 1h, 45m or 1h15m")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "Optional notes")
}

// parseSpanFlag parses "9:00AM-5:00PM". An empty value yields nil.
func parseSpanFlag(name, v string) (*model.Span, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	start, end, ok := strings.Cut(v, "-")
	if !ok {
		return nil, fmt.Errorf("--%s %q: want START-END, e.g. 9:00AM-5:00PM", name, v)
	}
	s, err := timecalc.ParseTimeOfDay(start)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	e, err := timecalc.ParseTimeOfDay(end)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &model.Span{Start: model.NewClock(s), End: model.NewClock(e)}, nil
}

func runLog(ctx context.Context, tr *tracker.Tracker, args []string) error {
	date, err := dateArg(ctx, tr, args)
	if err != nil {
		return err
	}
	in := tracker.DayInput{Date: date, Location: model.Location(logLocation)}
	if in.Span, err = parseSpanFlag("span", logSpan); err != nil {
		return err
	}
	if in.HomeSpan, err = parseSpanFlag("home", logHome); err != nil {
		return err
	}
	if in.OfficeSpan, err = parseSpanFlag("office", logOffice); err != nil {
		return err
	}
	if in.Break.Hours, in.Break.Minutes, err = timecalc.ParseHoursMinutes(logBreak); err != nil {
		return fmt.Errorf("--break: %w", err)
	}
	if logNotes != "" {
		in.Notes = &logNotes
	}

	rec, err := tr.LogDay(ctx, cfg.UserID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %s (%s): %dh %dm\n", rec.Date, rec.Location, rec.Hours, rec.Minutes)
	return nil
}
