package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's record and the week so far",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runStatus),
}

func runStatus(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	today, err := tr.Today(ctx, cfg.UserID)
	if err != nil {
		return err
	}

	rec, err := tr.GetDay(ctx, cfg.UserID, today)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Printf("Today (%s): nothing logged yet.\n", today)
	case err != nil:
		return err
	default:
		fmt.Printf("Today (%s): %dh %dm, %s\n", today, rec.Hours, rec.Minutes, rec.Location)
	}

	week, err := tr.Week(ctx, cfg.UserID, "")
	if err != nil {
		return err
	}
	fmt.Printf("Week %s: %s of %s over %d day(s)\n",
		week.Label,
		timecalc.FormatMinutes(week.Totals.TotalMinutes),
		timecalc.FormatMinutes(week.Contract.Minutes()),
		week.Totals.DaysLogged,
	)
	fmt.Printf("Delta: %s\n", deltaString(week.Comparison))
	return nil
}
