package timecalc_test

import (
	"testing"
	"time"

	"github.com/sojournii/sojournii/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{420, "7h 0m"},
		{2250, "37h 30m"},
		{-90, "-1h 30m"},
		{-5, "-5m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestParseHoursMinutes(t *testing.T) {
	tests := []struct {
		input  string
		wantH  int
		wantM  int
		wantOK bool
	}{
		{"37h30m", 37, 30, true},
		{"1h", 1, 0, true},
		{"45m", 0, 45, true},
		{"0", 0, 0, true},
		{"", 0, 0, true},
		{"1h 15m", 1, 15, true},
		{"1h75m", 0, 0, false},
		{"abc", 0, 0, false},
		{"2x", 0, 0, false},
	}
	for _, tt := range tests {
		h, m, err := timecalc.ParseHoursMinutes(tt.input)
		if (err == nil) != tt.wantOK {
			t.Errorf("ParseHoursMinutes(%q) err = %v, wantOK %v", tt.input, err, tt.wantOK)
			continue
		}
		if tt.wantOK && (h != tt.wantH || m != tt.wantM) {
			t.Errorf("ParseHoursMinutes(%q) = %d, %d, want %d, %d", tt.input, h, m, tt.wantH, tt.wantM)
		}
	}
}

func TestGenerateID(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	id := timecalc.GenerateID(ts)
	if len(id) != len("20260227-083210-xxxxx") {
		t.Errorf("GenerateID length = %d, want %d", len(id), len("20260227-083210-xxxxx"))
	}
	if id[:15] != "20260227-083210" {
		t.Errorf("GenerateID prefix = %q, want %q", id[:15], "20260227-083210")
	}
}
