package workhours

import (
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// WeeklyTotals sums the days of one week.
type WeeklyTotals struct {
	TotalMinutes  int `json:"total_minutes" yaml:"total_minutes"`
	HomeMinutes   int `json:"home_minutes" yaml:"home_minutes"`
	OfficeMinutes int `json:"office_minutes" yaml:"office_minutes"`
	BreakMinutes  int `json:"break_minutes" yaml:"break_minutes"`
	DaysLogged    int `json:"days_logged" yaml:"days_logged"`
}

func (t *WeeklyTotals) add(b DayBreakdown) {
	t.TotalMinutes += b.Total
	t.HomeMinutes += b.Home
	t.OfficeMinutes += b.Office
	t.BreakMinutes += b.Break
	t.DaysLogged++
}

// RollupWeek sums the records whose date lies inside w. Dates are compared
// as strings; they are already resolved to the user's calendar.
func RollupWeek(days []model.DayRecord, w timecalc.WeekWindow) WeeklyTotals {
	var totals WeeklyTotals
	for _, d := range days {
		if !w.Contains(d.Date) {
			continue
		}
		totals.add(Breakdown(d))
	}
	return totals
}

// WeekSummary is everything a presentation layer needs for one week.
type WeekSummary struct {
	Window     timecalc.WeekWindow    `json:"window" yaml:"window"`
	Label      string                 `json:"label" yaml:"label"`
	Days       []DayBreakdown         `json:"days" yaml:"days"`
	Totals     WeeklyTotals           `json:"totals" yaml:"totals"`
	Contract   model.ContractBaseline `json:"contract" yaml:"contract"`
	Comparison Comparison             `json:"comparison" yaml:"comparison"`
}

// Summarize builds a WeekSummary with one DayBreakdown per calendar day of
// w, Monday first. Days without a record are zero and not Logged.
func Summarize(days []model.DayRecord, w timecalc.WeekWindow, baseline model.ContractBaseline) WeekSummary {
	dates := w.Dates()
	index := make(map[string]int, len(dates))
	perDay := make([]DayBreakdown, len(dates))
	for i, date := range dates {
		index[date] = i
		perDay[i] = DayBreakdown{Date: date}
	}
	for _, d := range days {
		i, ok := index[d.Date]
		if !ok {
			continue
		}
		b := Breakdown(d)
		if perDay[i].Logged {
			// Merge duplicate dates so the row agrees with the totals.
			b.Total += perDay[i].Total
			b.Home += perDay[i].Home
			b.Office += perDay[i].Office
			b.Break += perDay[i].Break
		}
		perDay[i] = b
	}

	totals := RollupWeek(days, w)
	return WeekSummary{
		Window:     w,
		Label:      w.Label(),
		Days:       perDay,
		Totals:     totals,
		Contract:   baseline,
		Comparison: CompareToBaseline(totals, baseline),
	}
}
