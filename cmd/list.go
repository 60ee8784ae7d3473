package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/tracker"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the day records of a week",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runList),
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Any date in the week to list (default this week)")
}

func runList(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	week, err := tr.Week(ctx, cfg.UserID, listDate)
	if err != nil {
		return err
	}
	days, err := tr.ListDays(ctx, cfg.UserID, week.Window.StartDate, week.Window.EndDate)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Printf("No days logged in week %s.\n", week.Label)
		return nil
	}
	printList(days)
	return nil
}

func notes(rec model.DayRecord) string {
	if rec.Notes == nil {
		return ""
	}
	return *rec.Notes
}

func printList(days []model.DayRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Location", "Span", "Home", "Office", "Break", "Total", "Notes"})
	for _, d := range days {
		t.AppendRow(table.Row{
			d.Date,
			d.Location,
			spanString(d.Span),
			spanString(d.HomeSpan),
			spanString(d.OfficeSpan),
			minutesCell(d.Break.TotalMinutes()),
			fmt.Sprintf("%dh %dm", d.Hours, d.Minutes),
			notes(d),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
