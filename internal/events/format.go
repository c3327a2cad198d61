package events

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// TimeLayout is the timestamp layout used in text reports.
const TimeLayout = "2006-01-02 15:04 MST"

// Pluralize returns "1 word" or "n words"; words ending in s take "es".
func Pluralize(n int, word string) string {
	switch {
	case n == 1:
		return "1 " + word
	case strings.HasSuffix(word, "s"):
		return fmt.Sprintf("%d %ses", n, word)
	default:
		return fmt.Sprintf("%d %ss", n, word)
	}
}

// FormatSpan renders a whole number of hours as "5 hours" under a day and
// "2 days, 3 hours" from a day on.
func FormatSpan(hours int) string {
	if hours < 24 {
		return Pluralize(hours, "hour")
	}
	days, hrs := hours/24, hours%24
	s := Pluralize(days, "day")
	if hrs > 0 {
		s += ", " + Pluralize(hrs, "hour")
	}
	return s
}

// Header returns the report title for a scan of the given number of hours.
func Header(hours int) string {
	return "Moon events in the next " + FormatSpan(hours)
}

// WriteEvents writes one line per event, times shown in loc. A compound
// summary line precedes the first event of each compound instant.
func WriteEvents(w io.Writer, evs []Event, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	for _, e := range evs {
		if e.Compound != nil {
			if _, err := fmt.Fprintf(w, "%s:\n", e.Compound); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Time.In(loc).Format(TimeLayout), e.Description()); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport writes the header, a blank line and the events.
func WriteReport(w io.Writer, hours int, evs []Event, loc *time.Location) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", Header(hours)); err != nil {
		return err
	}
	if len(evs) == 0 {
		_, err := fmt.Fprintln(w, "No events.")
		return err
	}
	return WriteEvents(w, evs, loc)
}
