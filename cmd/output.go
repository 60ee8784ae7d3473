package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v2"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/workhours"
)

var (
	overtimeColor  = color.New(color.FgGreen)
	undertimeColor = color.New(color.FgRed)
	estimateColor  = color.New(color.FgHiBlack)
)

// deltaString renders a week delta, coloured by its sign.
func deltaString(c workhours.Comparison) string {
	text := fmt.Sprintf("%s (%s)", timecalc.FormatMinutes(c.DeltaMinutes), c.Status())
	switch {
	case c.DeltaMinutes > 0:
		return overtimeColor.Sprint(text)
	case c.DeltaMinutes < 0:
		return undertimeColor.Sprint(text)
	}
	return text
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func minutesCell(m int) string {
	if m == 0 {
		return ""
	}
	return timecalc.FormatMinutes(m)
}

// renderWeek prints a week summary as a table.
func renderWeek(w io.Writer, s workhours.WeekSummary) {
	fmt.Fprintf(w, "Week %s (%s to %s)\n", s.Label, s.Window.StartDate, s.Window.EndDate)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Day", "Location", "Home", "Office", "Break", "Worked"})
	for _, d := range s.Days {
		day := weekdayName(d.Date)
		if !d.Logged {
			t.AppendRow(table.Row{d.Date, day, "", "", "", "", ""})
			continue
		}
		loc := string(d.Location)
		if d.Estimated {
			loc += estimateColor.Sprint(" (est.)")
		}
		t.AppendRow(table.Row{d.Date, day, loc, minutesCell(d.Home), minutesCell(d.Office), minutesCell(d.Break), timecalc.FormatMinutes(d.Total)})
	}
	t.AppendFooter(table.Row{"", "", "Total",
		timecalc.FormatMinutes(s.Totals.HomeMinutes),
		timecalc.FormatMinutes(s.Totals.OfficeMinutes),
		timecalc.FormatMinutes(s.Totals.BreakMinutes),
		timecalc.FormatMinutes(s.Totals.TotalMinutes),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(w, "Contract: %s   Delta: %s\n", timecalc.FormatMinutes(s.Contract.Minutes()), deltaString(s.Comparison))
}

func weekdayName(date string) string {
	d, err := time.Parse(timecalc.DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()[:3]
}

// spanString renders a span as "9:00 AM - 5:00 PM", or "" when incomplete.
func spanString(s *model.Span) string {
	ws := s.WorkSpan()
	if !ws.Complete() {
		return ""
	}
	return ws.Start.String() + " - " + ws.End.String()
}
