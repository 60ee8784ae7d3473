package timecalc

import (
	"fmt"
	"strconv"
	"strings"
)

// Meridiem is the AM/PM half of a 12-hour wall-clock reading.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// ParseMeridiem accepts "am"/"pm" in any case.
func ParseMeridiem(s string) (Meridiem, bool) {
	switch Meridiem(strings.ToUpper(strings.TrimSpace(s))) {
	case AM:
		return AM, true
	case PM:
		return PM, true
	}
	return "", false
}

// TimeOfDay is a 12-hour wall-clock time. Hour must be 1..12 and Minute
// 0..59; the conversions below do not check this.
type TimeOfDay struct {
	Hour     int      `json:"hour"`
	Minute   int      `json:"minute"`
	Meridiem Meridiem `json:"meridiem"`
}

// To24HourOffset returns the hour of t on a 24-hour clock (0..23).
func To24HourOffset(t TimeOfDay) int {
	switch {
	case t.Hour == 12 && t.Meridiem == AM:
		return 0
	case t.Hour == 12 && t.Meridiem == PM:
		return 12
	case t.Meridiem == PM:
		return t.Hour + 12
	default:
		return t.Hour
	}
}

// FromOffset is the inverse of To24HourOffset for hours 0..23.
func FromOffset(hour24 int) TimeOfDay {
	switch {
	case hour24 == 0:
		return TimeOfDay{Hour: 12, Meridiem: AM}
	case hour24 == 12:
		return TimeOfDay{Hour: 12, Meridiem: PM}
	case hour24 > 12:
		return TimeOfDay{Hour: hour24 - 12, Meridiem: PM}
	default:
		return TimeOfDay{Hour: hour24, Meridiem: AM}
	}
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return To24HourOffset(t)*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Meridiem)
}

// ParseTimeOfDay parses user input such as "9:00AM", "9:00 pm", "12:30PM" or "9am".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if len(raw) < 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected e.g. 9:00AM", s)
	}
	mer, ok := ParseMeridiem(raw[len(raw)-2:])
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: missing AM/PM", s)
	}
	body := raw[:len(raw)-2]

	hourStr, minStr, hasMin := strings.Cut(body, ":")
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute := 0
	if hasMin {
		if len(minStr) != 2 {
			return TimeOfDay{}, fmt.Errorf("invalid minute in %q: expected two digits", s)
		}
		minute, err = strconv.Atoi(minStr)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
		}
	}

	t := TimeOfDay{Hour: hour, Minute: minute, Meridiem: mer}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t, nil
}

// Validate checks the hour, minute and meridiem ranges.
func (t TimeOfDay) Validate() error {
	if t.Hour < 1 || t.Hour > 12 {
		return fmt.Errorf("hour %d out of range 1-12", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59", t.Minute)
	}
	if t.Meridiem != AM && t.Meridiem != PM {
		return fmt.Errorf("meridiem %q must be AM or PM", t.Meridiem)
	}
	return nil
}
