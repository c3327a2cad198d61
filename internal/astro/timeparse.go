package astro

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a timestamp cannot be parsed.
var ErrInvalidTime = errors.New("invalid time")

// Accepted layouts, most specific first. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a calendar timestamp with sub-day precision.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrInvalidTime)
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want RFC 3339, \"2006-01-02 15:04\" or \"2006-01-02\")", ErrInvalidTime, s)
}
