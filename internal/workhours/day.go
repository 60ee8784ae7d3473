// Package workhours turns daily work records into day and week totals.
// Everything here is pure and safe for concurrent use.
package workhours

import (
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// DayTotal is a day's net working time.
type DayTotal struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// TotalMinutes returns the total in minutes.
func (d DayTotal) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// DayBreakdown attributes one day's minutes to locations.
type DayBreakdown struct {
	Date     string         `json:"date" yaml:"date"`
	Location model.Location `json:"location,omitempty" yaml:"location,omitempty"`
	Logged   bool           `json:"logged" yaml:"logged"`
	Total    int            `json:"total_minutes" yaml:"total_minutes"`
	Home     int            `json:"home_minutes" yaml:"home_minutes"`
	Office   int            `json:"office_minutes" yaml:"office_minutes"`
	Break    int            `json:"break_minutes" yaml:"break_minutes"`
	// Estimated is set when a hybrid total was split evenly for lack of
	// explicit home and office spans.
	Estimated bool `json:"estimated,omitempty" yaml:"estimated,omitempty"`
}

// AggregateDay computes the net working time of a single day. Days without
// a complete span count as zero.
func AggregateDay(rec model.DayRecord) DayTotal {
	h, m := timecalc.SplitMinutes(dayMinutes(rec))
	return DayTotal{Hours: h, Minutes: m}
}

func dayMinutes(rec model.DayRecord) int {
	raw := timecalc.CombineSpans(daySpans(rec)...)
	return timecalc.SubtractBreak(raw, rec.Break.Hours, rec.Break.Minutes)
}

// daySpans picks the spans that count for rec. Hybrid days recorded before
// the home/office split existed only carry the single span.
func daySpans(rec model.DayRecord) []timecalc.WorkSpan {
	if rec.Location == model.Hybrid && rec.HasHybridSpans() {
		return []timecalc.WorkSpan{rec.HomeSpan.WorkSpan(), rec.OfficeSpan.WorkSpan()}
	}
	return []timecalc.WorkSpan{rec.Span.WorkSpan()}
}

// Breakdown computes the day total and its home/office/break attribution.
//
// Home and office days put their whole net total in the matching bucket.
// Hybrid days attribute each explicit span's gross minutes to its own
// bucket; without explicit spans the net total is split evenly.
func Breakdown(rec model.DayRecord) DayBreakdown {
	b := DayBreakdown{
		Date:     rec.Date,
		Location: rec.Location,
		Logged:   true,
		Total:    dayMinutes(rec),
		Break:    rec.Break.TotalMinutes(),
	}
	switch rec.Location {
	case model.Home:
		b.Home = b.Total
	case model.Office:
		b.Office = b.Total
	case model.Hybrid:
		if rec.HasHybridSpans() {
			b.Home = timecalc.ElapsedMinutes(rec.HomeSpan.WorkSpan())
			b.Office = timecalc.ElapsedMinutes(rec.OfficeSpan.WorkSpan())
		} else {
			b.Home = b.Total / 2
			b.Office = b.Total - b.Home
			b.Estimated = b.Total > 0
		}
	}
	return b
}
