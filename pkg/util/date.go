package util

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format the forecasting service accepts.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate trims s and reduces RFC3339 timestamps to their calendar date.
// Anything else is returned trimmed so the service can report it.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, s); err == nil {
		return s
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return FormatDate(t)
	}
	return s
}
