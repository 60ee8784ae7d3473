package timecalc

const minutesPerDay = 24 * 60

// WorkSpan is one continuous block of work on a single calendar day.
// A nil end means the input for that side was incomplete.
type WorkSpan struct {
	Start *TimeOfDay `json:"start"`
	End   *TimeOfDay `json:"end"`
}

// Complete reports whether both ends of the span are known.
func (s WorkSpan) Complete() bool {
	return s.Start != nil && s.End != nil
}

// ElapsedMinutes returns the minutes between start and end. An end before
// the start is read as crossing midnight. Incomplete spans count as zero.
func ElapsedMinutes(span WorkSpan) int {
	if !span.Complete() {
		return 0
	}
	raw := span.End.Minutes() - span.Start.Minutes()
	if raw < 0 {
		raw += minutesPerDay
	}
	return max(0, raw)
}

// CombineSpans sums ElapsedMinutes over the complete spans and skips the rest.
func CombineSpans(spans ...WorkSpan) int {
	total := 0
	for _, s := range spans {
		if !s.Complete() {
			continue
		}
		total += ElapsedMinutes(s)
	}
	return total
}

// SubtractBreak removes a break from a total, clamped at zero.
func SubtractBreak(totalMinutes, breakHours, breakMinutes int) int {
	return max(0, totalMinutes-(breakHours*60+breakMinutes))
}
