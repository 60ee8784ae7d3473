package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// GenerateID creates a unique record ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), string(suffix))
}

// SplitMinutes converts a minute count into whole hours and the remaining minutes.
func SplitMinutes(total int) (hours, minutes int) {
	return total / 60, total % 60
}

// FormatMinutes formats minutes as "7h 0m" or "45m". Negative values get a
// leading minus sign.
func FormatMinutes(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	h, m := SplitMinutes(total)
	if h > 0 {
		return fmt.Sprintf("%s%dh %dm", sign, h, m)
	}
	return fmt.Sprintf("%s%dm", sign, m)
}

// ParseHoursMinutes parses "37h30m", "1h", "45m" or "0" into hours and minutes.
func ParseHoursMinutes(s string) (hours, minutes int, err error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if raw == "" || raw == "0" {
		return 0, 0, nil
	}
	rest := raw
	if h, after, ok := strings.Cut(rest, "h"); ok {
		hours, err = strconv.Atoi(h)
		if err != nil || hours < 0 {
			return 0, 0, fmt.Errorf("invalid hours in %q", s)
		}
		rest = after
	}
	if rest != "" {
		m, ok := strings.CutSuffix(rest, "m")
		if !ok {
			return 0, 0, fmt.Errorf("invalid duration %q: expected e.g. 1h30m", s)
		}
		minutes, err = strconv.Atoi(m)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, 0, fmt.Errorf("invalid minutes in %q", s)
		}
	}
	return hours, minutes, nil
}
