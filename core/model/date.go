package model

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used by the record store.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date (or RFC3339 timestamp) and truncates it to
// UTC midnight. Unparseable input yields the zero time, which every
// comparison helper treats as unknown.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// FormatDate renders t as an ISO date, or an empty string when unknown.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateOrUnknown renders t as an ISO date, or "unknown" when unknown.
func DateOrUnknown(t time.Time) string {
	if s := FormatDate(t); s != "" {
		return s
	}
	return "unknown"
}

// OnOrBefore returns a <= b. Unknown dates never compare.
func OnOrBefore(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return !a.After(b)
}
