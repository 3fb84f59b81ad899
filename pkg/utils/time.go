package utils

import (
	"fmt"
	"strings"
	"time"
)

// ShortTimestampLayout is the month-day form used by hand-written seed data
const ShortTimestampLayout = "01-02 15:04"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseSeedTimestamp accepts RFC3339 or "MM-DD HH:MM". The short form carries
// no year and resolves to its latest occurrence at or before now, in UTC.
func ParseSeedTimestamp(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	short, err := time.Parse(ShortTimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither RFC3339 nor %q", s, ShortTimestampLayout)
	}

	now = now.UTC()
	t := time.Date(now.Year(), short.Month(), short.Day(),
		short.Hour(), short.Minute(), 0, 0, time.UTC)
	if t.After(now) {
		t = time.Date(now.Year()-1, short.Month(), short.Day(),
			short.Hour(), short.Minute(), 0, 0, time.UTC)
	}
	return t, nil
}
