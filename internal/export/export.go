// Package export renders system state and event scans as JSON and text.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
)

// Feature locates a fixed surface feature.
type Feature struct {
	LongitudeDeg float64
	System       ephem.System
}

// RedSpot is the default Great Red Spot feature.
var RedSpot = Feature{LongitudeDeg: ephem.DefaultRedSpotLongitude, System: ephem.SystemII}

// SystemExport is the JSON-serializable representation of a snapshot.
type SystemExport struct {
	Time             time.Time     `json:"time"`
	JulianDay        float64       `json:"julian_day"`
	EarthJupiterAU   float64       `json:"earth_jupiter_au"`
	PhaseAngle       float64       `json:"phase_angle_deg"`
	SubEarthLatitude float64       `json:"sub_earth_latitude_deg"`
	System1Longitude float64       `json:"system1_longitude_deg"`
	System2Longitude float64       `json:"system2_longitude_deg"`
	Moons            []MoonExport  `json:"moons"`
	RedSpot          FeatureExport `json:"red_spot"`
}

// MoonExport is a JSON-friendly observation.
type MoonExport struct {
	Moon         ephem.Moon   `json:"moon"`
	State        ephem.State  `json:"state"`
	AngleDeg     float64      `json:"angle_deg"`
	Distance     float64      `json:"distance_radii"`
	DiskDistance float64      `json:"disk_distance"`
	Position     *ephem.Point `json:"position,omitempty"`
	Shadow       *ephem.Point `json:"shadow,omitempty"`
}

// FeatureExport is a JSON-friendly surface feature position.
type FeatureExport struct {
	LongitudeDeg float64  `json:"longitude_deg"`
	System       string   `json:"system"`
	Visible      bool     `json:"visible"`
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
}

// System converts a snapshot to an exportable format.
func System(s ephem.Snapshot, spot Feature) *SystemExport {
	export := &SystemExport{
		Time:             s.Time,
		JulianDay:        s.JulianDay,
		EarthJupiterAU:   s.EarthJupiterDistance,
		PhaseAngle:       s.PhaseAngle.Deg(),
		SubEarthLatitude: s.SubEarthLatitude.Deg(),
		System1Longitude: s.System1Longitude.Deg(),
		System2Longitude: s.System2Longitude.Deg(),
		RedSpot: FeatureExport{
			LongitudeDeg: spot.LongitudeDeg,
			System:       spot.System.String(),
		},
	}

	for _, o := range ephem.ObserveAll(s) {
		me := MoonExport{
			Moon:         o.Moon,
			State:        o.State,
			AngleDeg:     s.MoonAngles[o.Moon].Deg(),
			Distance:     s.MoonDistances[o.Moon],
			DiskDistance: o.DiskDistance(),
		}
		if p, ok := o.Position(); ok {
			me.Position = &p
		}
		if p, ok := o.Shadow(); ok {
			me.Shadow = &p
		}
		export.Moons = append(export.Moons, me)
	}

	if x, ok := ephem.FeatureX(s, spot.LongitudeDeg, spot.System); ok {
		export.RedSpot.Visible = true
		export.RedSpot.X = &x
		if spot.System == ephem.SystemII {
			if p, ok := ephem.RedSpot(s, spot.LongitudeDeg); ok {
				export.RedSpot.Y = &p.Y
			}
		}
	}

	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SystemExport) WriteJSON(w io.Writer) error {
	return writeJSON(w, s)
}

// EventsExport is the JSON-serializable result of an event scan.
type EventsExport struct {
	ScanID   string         `json:"scan_id,omitempty"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Interval string         `json:"interval"`
	Events   []events.Event `json:"events"`
}

// Events builds an export for a scan of [start, start+span).
func Events(start time.Time, span, interval time.Duration, evs []events.Event) *EventsExport {
	if evs == nil {
		evs = []events.Event{}
	}
	return &EventsExport{
		Start:    start,
		End:      start.Add(span),
		Interval: interval.String(),
		Events:   evs,
	}
}

// WriteJSON writes the scan as JSON to the given writer.
func (e *EventsExport) WriteJSON(w io.Writer) error {
	return writeJSON(w, e)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, s *SystemExport) {
	fmt.Fprintf(w, "Jupiter @ %s\n", s.Time.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "JD %.5f   Δ %.4f AU   ψ %+.2f°   De %+.2f°\n",
		s.JulianDay, s.EarthJupiterAU, s.PhaseAngle, s.SubEarthLatitude)
	fmt.Fprintf(w, "Central meridian: System I %.1f°   System II %.1f°\n",
		s.System1Longitude, s.System2Longitude)
	fmt.Fprintln(w, strings.Repeat("─", 64))

	fmt.Fprintf(w, "%-9s %-11s %8s %8s %8s %-14s\n",
		"Moon", "State", "x", "y", "Dist", "Shadow")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for _, m := range s.Moons {
		x, y := "-", "-"
		if m.Position != nil {
			x = fmt.Sprintf("%+.2f", m.Position.X)
			y = fmt.Sprintf("%+.2f", m.Position.Y)
		}
		shadow := "-"
		if m.Shadow != nil {
			shadow = fmt.Sprintf("on disk %+.2f", m.Shadow.X)
		}
		fmt.Fprintf(w, "%-9s %-11s %8s %8s %8.2f %-14s\n",
			m.Moon, m.State, x, y, m.Distance, shadow)
	}

	spot := "far side"
	if s.RedSpot.Visible && s.RedSpot.X != nil {
		spot = fmt.Sprintf("x %+.2f", *s.RedSpot.X)
	}
	fmt.Fprintf(w, "\nRed Spot (%.1f° System %s): %s\n", s.RedSpot.LongitudeDeg, s.RedSpot.System, spot)
}

// Strip glyphs.
const (
	diskLeft   = '('
	diskRight  = ')'
	diskFill   = '='
	shadowMark = '*'
)

// Strip renders a one-line view of the system width columns wide, with x
// growing to the right. Hidden moons are omitted, shadows on the disk are
// marked with '*' and transiting moons are drawn over the disk.
func Strip(s ephem.Snapshot, width int) string {
	if width < 9 {
		width = 9
	}
	row := []rune(strings.Repeat(" ", width))
	center := width / 2

	// Callisto's orbit fits with a column to spare on each side.
	scale := float64(center-1) / 27
	half := max(1, int(math.Round(scale)))

	col := func(x float64) int {
		return center + int(math.Round(x*scale))
	}
	put := func(c int, r rune) {
		if c >= 0 && c < width {
			row[c] = r
		}
	}

	put(center-half, diskLeft)
	put(center+half, diskRight)
	for c := center - half + 1; c < center+half; c++ {
		put(c, diskFill)
	}

	obs := ephem.ObserveAll(s)
	for _, o := range obs {
		if p, ok := o.Shadow(); ok {
			c := col(p.X)
			c = min(max(c, center-half+1), center+half-1)
			put(c, shadowMark)
		}
	}
	for _, o := range obs {
		if p, ok := o.Position(); ok {
			put(col(p.X), rune(o.Moon.Symbol()))
		}
	}
	return string(row)
}

// WriteStrip writes Strip followed by a newline.
func WriteStrip(w io.Writer, s ephem.Snapshot, width int) error {
	_, err := fmt.Fprintln(w, Strip(s, width))
	return err
}
