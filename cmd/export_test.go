package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"9:00 AM - 5:00 PM", "9:00 AM - 5:00 PM"},
		{"client call, then review", `"client call, then review"`},
		{`said "done"`, `"said ""done"""`},
		{"line one\nline two", "\"line one\nline two\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	clock := func(h int, m timecalc.Meridiem) model.Clock {
		return model.NewClock(timecalc.TimeOfDay{Hour: h, Meridiem: m})
	}
	note := "standup, then planning"
	days := []model.DayRecord{
		{
			Date:     "2026-10-13",
			Location: model.Office,
			Span:     &model.Span{Start: clock(9, timecalc.AM), End: clock(5, timecalc.PM)},
			Break:    model.Break{Hours: 1},
			Hours:    7,
			Notes:    &note,
		},
		{
			Date:       "2026-10-14",
			Location:   model.Hybrid,
			HomeSpan:   &model.Span{Start: clock(8, timecalc.AM), End: clock(12, timecalc.PM)},
			OfficeSpan: &model.Span{Start: clock(1, timecalc.PM), End: clock(5, timecalc.PM)},
			Break:      model.Break{Minutes: 30},
			Hours:      7,
			Minutes:    30,
		},
	}

	var buf bytes.Buffer
	printCSV(&buf, days)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), buf.String())
	}

	wantOffice := `2026-10-13,office,9:00 AM - 5:00 PM,,,60,420,"standup, then planning"`
	if lines[1] != wantOffice {
		t.Errorf("office row = %q, want %q", lines[1], wantOffice)
	}
	wantHybrid := "2026-10-14,hybrid,,8:00 AM - 12:00 PM,1:00 PM - 5:00 PM,30,450,"
	if lines[2] != wantHybrid {
		t.Errorf("hybrid row = %q, want %q", lines[2], wantHybrid)
	}
}
