package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	exportFrom   string
	exportTo     string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export day records to stdout",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runExport),
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First date (YYYY-MM-DD); default start of this week")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last date (YYYY-MM-DD); default end of this week")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
}

func runExport(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	from, to := exportFrom, exportTo
	if from == "" || to == "" {
		week, err := tr.Week(ctx, cfg.UserID, from)
		if err != nil {
			return err
		}
		if from == "" {
			from = week.Window.StartDate
		}
		if to == "" {
			to = week.Window.EndDate
		}
	}

	days, err := tr.ListDays(ctx, cfg.UserID, from, to)
	if err != nil {
		return err
	}
	if days == nil {
		days = []model.DayRecord{}
	}

	switch exportFormat {
	case "json":
		return writeJSON(os.Stdout, days)
	case "yaml":
		return writeYAML(os.Stdout, days)
	case "md":
		printList(days)
	default: // csv
		printCSV(os.Stdout, days)
	}
	return nil
}

func printCSV(w io.Writer, days []model.DayRecord) {
	fmt.Fprintln(w, "date,location,span,home_span,office_span,break_minutes,total_minutes,notes")
	for _, d := range days {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%d,%s\n",
			csvEscape(d.Date),
			csvEscape(string(d.Location)),
			csvEscape(spanString(d.Span)),
			csvEscape(spanString(d.HomeSpan)),
			csvEscape(spanString(d.OfficeSpan)),
			d.Break.TotalMinutes(),
			d.Hours*60+d.Minutes,
			csvEscape(notes(d)),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
