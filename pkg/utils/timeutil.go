package utils

import (
	"time"
)

// Layouts used in rendered pages and file names.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04 UTC"
)

// FormatTimestamp formats t in UTC for page footers ("2025-01-31 14:05 UTC").
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseFilingDate parses an EDGAR filing date (YYYY-MM-DD) as a UTC date.
func ParseFilingDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FilingAge returns whole days between a filing date and now, or -1 when
// the date does not parse.
func FilingAge(date string, now time.Time) int {
	t, err := ParseFilingDate(date)
	if err != nil {
		return -1
	}
	return int(now.UTC().Sub(t).Hours() / 24)
}
