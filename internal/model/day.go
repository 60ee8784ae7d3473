package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/sojournii/sojournii/internal/timecalc"
)

// Location tags where a day's work happened.
type Location string

const (
	Home   Location = "home"
	Office Location = "office"
	Hybrid Location = "hybrid"
)

// ParseLocation accepts "home", "office" or "hybrid" in any case.
func ParseLocation(s string) (Location, error) {
	switch l := Location(strings.ToLower(strings.TrimSpace(s))); l {
	case Home, Office, Hybrid:
		return l, nil
	}
	return "", fmt.Errorf("unknown location %q: want home, office or hybrid", s)
}

// Clock is a wall-clock time as entered in a form. Any field may be missing.
type Clock struct {
	Hour     *int   `json:"hour" yaml:"hour"`
	Minute   *int   `json:"minute" yaml:"minute"`
	Meridiem string `json:"meridiem" yaml:"meridiem"`
}

// NewClock wraps a complete time of day.
func NewClock(t timecalc.TimeOfDay) Clock {
	h, m := t.Hour, t.Minute
	return Clock{Hour: &h, Minute: &m, Meridiem: string(t.Meridiem)}
}

// TimeOfDay returns nil unless hour, minute and meridiem are all present.
func (c Clock) TimeOfDay() *timecalc.TimeOfDay {
	if c.Hour == nil || c.Minute == nil {
		return nil
	}
	mer, ok := timecalc.ParseMeridiem(c.Meridiem)
	if !ok {
		return nil
	}
	return &timecalc.TimeOfDay{Hour: *c.Hour, Minute: *c.Minute, Meridiem: mer}
}

// Span is one block of work given as two Clock readings.
type Span struct {
	Start Clock `json:"start" yaml:"start"`
	End   Clock `json:"end" yaml:"end"`
}

// WorkSpan converts s for the duration calculator. A nil span yields an
// incomplete WorkSpan.
func (s *Span) WorkSpan() timecalc.WorkSpan {
	if s == nil {
		return timecalc.WorkSpan{}
	}
	return timecalc.WorkSpan{Start: s.Start.TimeOfDay(), End: s.End.TimeOfDay()}
}

// Break is the unpaid break taken during a day.
type Break struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// TotalMinutes returns the break length in minutes.
func (b Break) TotalMinutes() int {
	return b.Hours*60 + b.Minutes
}

// DayRecord is one user's work entry for one calendar day. Stores keep at
// most one record per (UserID, Date).
type DayRecord struct {
	ID       string   `json:"id" yaml:"id"`
	UserID   string   `json:"user_id" yaml:"user_id"`
	Date     string   `json:"date" yaml:"date"`
	Location Location `json:"location" yaml:"location"`

	// Span is used by home and office days.
	Span *Span `json:"span,omitempty" yaml:"span,omitempty"`
	// HomeSpan and OfficeSpan are used by hybrid days.
	HomeSpan   *Span `json:"home_span,omitempty" yaml:"home_span,omitempty"`
	OfficeSpan *Span `json:"office_span,omitempty" yaml:"office_span,omitempty"`
	Break      Break `json:"break" yaml:"break"`

	// Hours and Minutes hold the day total computed when the record was saved.
	Hours   int     `json:"hours" yaml:"hours"`
	Minutes int     `json:"minutes" yaml:"minutes"`
	Notes   *string `json:"notes" yaml:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasHybridSpans reports whether either named hybrid span is complete.
func (r DayRecord) HasHybridSpans() bool {
	return r.HomeSpan.WorkSpan().Complete() || r.OfficeSpan.WorkSpan().Complete()
}
