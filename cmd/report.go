package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/tracker"
	"github.com/sojournii/sojournii/internal/workhours"
)

var (
	reportDate   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the weekly summary against your contract",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runReport),
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any date in the week to report (default this week)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json, yaml")
}

func runReport(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	week, err := tr.Week(ctx, cfg.UserID, reportDate)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "csv":
		printReportCSV(week)
	case "json":
		return writeJSON(os.Stdout, week)
	case "yaml":
		return writeYAML(os.Stdout, week)
	case "md", "":
		renderWeek(os.Stdout, week)
	default:
		return fmt.Errorf("%w: unknown format %q", tracker.ErrInvalidInput, reportFormat)
	}
	return nil
}

func printReportCSV(week workhours.WeekSummary) {
	fmt.Println("date,location,home_minutes,office_minutes,break_minutes,total_minutes,estimated")
	for _, d := range week.Days {
		fmt.Printf("%s,%s,%d,%d,%d,%d,%t\n",
			d.Date, csvEscape(string(d.Location)), d.Home, d.Office, d.Break, d.Total, d.Estimated)
	}
	fmt.Printf("total,,%d,%d,%d,%d,\n",
		week.Totals.HomeMinutes, week.Totals.OfficeMinutes, week.Totals.BreakMinutes, week.Totals.TotalMinutes)
}
