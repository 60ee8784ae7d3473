package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	retroDate      string
	retroWentWell  string
	retroToImprove string
	retroActions   []string
)

var retroCmd = &cobra.Command{
	Use:   "retro",
	Short: "Weekly retrospective",
}

var retroShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the retrospective of a week",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, tr *tracker.Tracker, _ []string) error {
		r, err := tr.Retro(ctx, cfg.UserID, retroDate)
		if err != nil {
			return err
		}
		fmt.Printf("Week %s - %s\n", r.WeekStart, r.WeekEnd)
		if r.CreatedAt.IsZero() {
			fmt.Println("No retrospective yet.")
			return nil
		}
		fmt.Printf("\nWent well:\n  %s\n", indent(r.WentWell))
		fmt.Printf("\nTo improve:\n  %s\n", indent(r.ToImprove))
		if len(r.ActionItems) > 0 {
			fmt.Println("\nAction items:")
			for _, a := range r.ActionItems {
				fmt.Printf("  - %s\n", a)
			}
		}
		return nil
	}),
}

var retroSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the retrospective of a week (replaces any earlier one)",
	Args:  cobra.NoArgs,
	RunE: withTracker(func(ctx context.Context, tr *tracker.Tracker, _ []string) error {
		r, err := tr.SaveRetro(ctx, cfg.UserID, retroDate, tracker.RetroInput{
			WentWell:    retroWentWell,
			ToImprove:   retroToImprove,
			ActionItems: retroActions,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Saved retrospective for week %s - %s\n", r.WeekStart, r.WeekEnd)
		return nil
	}),
}

func init() {
	retroCmd.PersistentFlags().StringVar(&retroDate, "date", "", "Any date in the week (default this week)")
	retroSaveCmd.Flags().StringVar(&retroWentWell, "went-well", "", "What went well")
	retroSaveCmd.Flags().StringVar(&retroToImprove, "to-improve", "", "What to improve")
	retroSaveCmd.Flags().StringArrayVar(&retroActions, "action", nil, "Action item (repeatable)")
	retroCmd.AddCommand(retroShowCmd)
	retroCmd.AddCommand(retroSaveCmd)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
