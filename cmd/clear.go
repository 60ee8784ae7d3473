package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/tracker"
)

var clearCmd = &cobra.Command{
	Use:   "clear [date]",
	Short: "Delete a day's record (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withTracker(func(ctx context.Context, tr *tracker.Tracker, args []string) error {
		date, err := dateArg(ctx, tr, args)
		if err != nil {
			return err
		}
		if err := tr.DeleteDay(ctx, cfg.UserID, date); err != nil {
			return fmt.Errorf("clear %s: %w", date, err)
		}
		fmt.Printf("Cleared %s\n", date)
		return nil
	}),
}
