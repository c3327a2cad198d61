package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
)

var ioTransit = time.Date(2024, 1, 2, 13, 45, 0, 0, time.UTC)

func TestSystem(t *testing.T) {
	export := System(ephem.Compute(ioTransit), RedSpot)

	if !export.Time.Equal(ioTransit) {
		t.Errorf("Time = %v, want %v", export.Time, ioTransit)
	}
	if len(export.Moons) != ephem.NumMoons {
		t.Fatalf("Moons count = %d, want %d", len(export.Moons), ephem.NumMoons)
	}

	io := export.Moons[ephem.Io]
	if io.Moon != ephem.Io || io.State != ephem.Transiting {
		t.Errorf("Io = %v %v, want Io transiting", io.Moon, io.State)
	}
	if io.Position == nil {
		t.Fatal("Io position missing during transit")
	}
	if io.Shadow != nil {
		t.Errorf("Io shadow = %+v, want none before 13:50", io.Shadow)
	}

	if !export.RedSpot.Visible || export.RedSpot.X == nil || export.RedSpot.Y == nil {
		t.Fatalf("RedSpot = %+v, want visible with coordinates", export.RedSpot)
	}
	if export.RedSpot.System != "II" {
		t.Errorf("RedSpot.System = %q, want II", export.RedSpot.System)
	}
}

func TestSystemHiddenMoonJSON(t *testing.T) {
	export := System(ephem.Compute(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)), RedSpot)

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded struct {
		Moons []struct {
			Moon     string          `json:"moon"`
			State    string          `json:"state"`
			Position json.RawMessage `json:"position"`
		} `json:"moons"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, buf.String())
	}

	europa := decoded.Moons[ephem.Europa]
	if europa.Moon != "Europa" || europa.State != "hidden" {
		t.Errorf("Europa = %+v, want hidden", europa)
	}
	if europa.Position != nil {
		t.Errorf("hidden Europa has position %s", europa.Position)
	}
	if !strings.Contains(buf.String(), `"phase_angle_deg"`) {
		t.Error("JSON missing phase_angle_deg")
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{
			"Io transiting",
			ioTransit,
			"                          C            (I)           G                           ",
		},
		{
			"Europa hidden",
			time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC),
			"               C                       (=)I                   G                  ",
		},
		{
			"Io shadow on disk",
			time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
			"                           C           (*)I          G                           ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(ephem.Compute(tt.at), 81)
			if got != tt.expected {
				t.Errorf("Strip() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestStripMinimumWidth(t *testing.T) {
	got := Strip(ephem.Compute(ioTransit), 3)
	if len([]rune(got)) != 9 {
		t.Errorf("Strip() width = %d, want 9", len([]rune(got)))
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, System(ephem.Compute(ioTransit), RedSpot))

	output := buf.String()
	for _, want := range []string{
		"Jupiter @ 2024-01-02T13:45:00Z",
		"Io        transiting",
		"Ganymede  far-side",
		"Red Spot (61.0° System II): x -0.29",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q:\n%s", want, output)
		}
	}
}

func TestEventsExport(t *testing.T) {
	start := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	export := Events(start, 6*time.Hour, time.Minute, nil)
	export.ScanID = "abc"

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	output := buf.String()
	for _, want := range []string{`"scan_id": "abc"`, `"end": "2024-01-02T18:00:00Z"`, `"interval": "1m0s"`, `"events": []`} {
		if !strings.Contains(output, want) {
			t.Errorf("JSON missing %s:\n%s", want, output)
		}
	}

	export = Events(start, time.Hour, time.Minute, []events.Event{{Time: start, Moon: ephem.Io, Kind: events.TransitEnds}})
	if len(export.Events) != 1 {
		t.Errorf("Events count = %d, want 1", len(export.Events))
	}
}
