// Package astro provides calendar and angle helpers for the ephemeris code.
package astro

import (
	"math"
	"time"
)

// J1900 is the Julian day of the ephemeris epoch, 1899 December 31 12h ET.
const J1900 = 2415020.0

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	// Convert to UTC
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	// Time of day as fraction
	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Adjust for January/February (treat as months 13/14 of previous year)
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// DaysSinceJ1900 returns the number of days, with the time of day as the
// fractional part, elapsed between J1900 and t.
func DaysSinceJ1900(t time.Time) float64 {
	return JulianDate(t) - J1900
}
