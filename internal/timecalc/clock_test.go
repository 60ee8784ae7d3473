package timecalc_test

import (
	"testing"

	"github.com/sojournii/sojournii/internal/timecalc"
)

func TestTo24HourOffset(t *testing.T) {
	tests := []struct {
		in   timecalc.TimeOfDay
		want int
	}{
		{timecalc.TimeOfDay{Hour: 12, Meridiem: timecalc.AM}, 0},
		{timecalc.TimeOfDay{Hour: 1, Meridiem: timecalc.AM}, 1},
		{timecalc.TimeOfDay{Hour: 11, Meridiem: timecalc.AM}, 11},
		{timecalc.TimeOfDay{Hour: 12, Meridiem: timecalc.PM}, 12},
		{timecalc.TimeOfDay{Hour: 1, Meridiem: timecalc.PM}, 13},
		{timecalc.TimeOfDay{Hour: 11, Meridiem: timecalc.PM}, 23},
	}
	for _, tt := range tests {
		got := timecalc.To24HourOffset(tt.in)
		if got != tt.want {
			t.Errorf("To24HourOffset(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFromOffsetRoundTrip(t *testing.T) {
	seen := map[timecalc.TimeOfDay]bool{}
	for h := 0; h < 24; h++ {
		tod := timecalc.FromOffset(h)
		if tod.Hour < 1 || tod.Hour > 12 {
			t.Fatalf("FromOffset(%d) hour = %d, want 1..12", h, tod.Hour)
		}
		if got := timecalc.To24HourOffset(tod); got != h {
			t.Errorf("To24HourOffset(FromOffset(%d)) = %d", h, got)
		}
		seen[tod] = true
	}
	if len(seen) != 24 {
		t.Errorf("FromOffset produced %d distinct values, want 24", len(seen))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  timecalc.TimeOfDay
	}{
		{"9:00AM", timecalc.TimeOfDay{Hour: 9, Minute: 0, Meridiem: timecalc.AM}},
		{"9:05 pm", timecalc.TimeOfDay{Hour: 9, Minute: 5, Meridiem: timecalc.PM}},
		{"12:30PM", timecalc.TimeOfDay{Hour: 12, Minute: 30, Meridiem: timecalc.PM}},
		{"7am", timecalc.TimeOfDay{Hour: 7, Minute: 0, Meridiem: timecalc.AM}},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseTimeOfDay(tt.input)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, input := range []string{"", "9:00", "13:00PM", "0:30AM", "9:60AM", "9:5AM", "nine AM"} {
		if _, err := timecalc.ParseTimeOfDay(input); err == nil {
			t.Errorf("ParseTimeOfDay(%q): expected error", input)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod := timecalc.TimeOfDay{Hour: 9, Minute: 5, Meridiem: timecalc.PM}
	if got := tod.String(); got != "9:05 PM" {
		t.Errorf("String() = %q, want %q", got, "9:05 PM")
	}
}
