package timecalc

import (
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/maypok86/otter/v2"
)

// DateLayout is the calendar-date format used for every stored date.
const DateLayout = "2006-01-02"

// WeekWindow is the inclusive Monday..Sunday range of one calendar week in
// a given timezone. Dates are plain YYYY-MM-DD strings so that range checks
// are string comparisons.
type WeekWindow struct {
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
	Timezone  string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

var locations = otter.Must(&otter.Options[string, *time.Location]{
	MaximumSize:     512,
	InitialCapacity: 16,
})

// LoadLocation resolves an IANA timezone name, caching successful lookups.
func LoadLocation(name string) (*time.Location, error) {
	if loc, ok := locations.GetIfPresent(name); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	locations.Set(name, loc)
	return loc, nil
}

// ComputeWeek returns the week enclosing ref as seen on the wall calendar of
// timezone. An empty timezone uses the process's local zone. An unknown
// timezone is logged and ref is used as-is, as though it were already in the
// wanted zone.
func ComputeWeek(ref time.Time, timezone string, logger *slog.Logger) WeekWindow {
	w := weekOf(inZone(ref, timezone, logger).Date())
	w.Timezone = timezone
	return w
}

// inZone projects ref onto the wall clock of timezone.
func inZone(ref time.Time, timezone string, logger *slog.Logger) time.Time {
	if timezone == "" {
		return ref.In(time.Local)
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unknown timezone, computing dates without conversion",
			"timezone", timezone, "error", err)
		return ref
	}
	return ref.In(loc)
}

// WeekOfDate returns the week containing a YYYY-MM-DD calendar date. The
// date is already a wall-calendar date, so no zone conversion is applied.
func WeekOfDate(date, timezone string) (WeekWindow, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return WeekWindow{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	w := weekOf(t.Date())
	w.Timezone = timezone
	return w, nil
}

// weekOf does the arithmetic on a UTC calendar date so DST never shifts it.
func weekOf(y int, m time.Month, d int) WeekWindow {
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dow := int(day.Weekday())
	daysSinceMonday := dow - 1
	if dow == 0 {
		daysSinceMonday = 6
	}
	monday := day.AddDate(0, 0, -daysSinceMonday)
	sunday := monday.AddDate(0, 0, 6)
	return WeekWindow{
		StartDate: monday.Format(DateLayout),
		EndDate:   sunday.Format(DateLayout),
	}
}

// Contains reports whether date lies within the window, inclusive.
func (w WeekWindow) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// Dates lists the seven dates of the window, Monday first.
func (w WeekWindow) Dates() []string {
	start, err := time.Parse(DateLayout, w.StartDate)
	if err != nil {
		return nil
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// Label returns the ISO week label, e.g. "2026-W42".
func (w WeekWindow) Label() string {
	start, err := time.Parse(DateLayout, w.StartDate)
	if err != nil {
		return w.StartDate
	}
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Previous returns the week before w.
func (w WeekWindow) Previous() WeekWindow {
	start, err := time.Parse(DateLayout, w.StartDate)
	if err != nil {
		return w
	}
	prev := weekOf(start.AddDate(0, 0, -7).Date())
	prev.Timezone = w.Timezone
	return prev
}

// Today returns the calendar date of now in timezone, with the same fallback
// rules as ComputeWeek.
func Today(now time.Time, timezone string, logger *slog.Logger) string {
	return inZone(now, timezone, logger).Format(DateLayout)
}
