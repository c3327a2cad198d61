package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/state"
)

func TestEventsModel_States(t *testing.T) {
	start := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap state.Snapshot
		want []string
	}{
		{
			name: "no scan",
			snap: state.Snapshot{},
			want: []string{"No scan yet.", "None since start."},
		},
		{
			name: "scanning",
			snap: state.Snapshot{Scanning: true},
			want: []string{"Scanning..."},
		},
		{
			name: "failed",
			snap: state.Snapshot{Scan: &state.ScanResult{Start: start, Err: errors.New("boom")}},
			want: []string{"Scan failed: boom"},
		},
		{
			name: "empty scan",
			snap: state.Snapshot{Scan: &state.ScanResult{Start: start, End: start.Add(5 * time.Hour)}},
			want: []string{"Moon events in the next 5 hours", "No events."},
		},
		{
			name: "events",
			snap: state.Snapshot{
				Scan: &state.ScanResult{
					Start: start,
					End:   start.Add(48 * time.Hour),
					Events: []events.Event{
						{Time: start.Add(46 * time.Minute), Moon: ephem.Io, Kind: events.TransitBegins},
						{Time: start.Add(110 * time.Minute), Moon: ephem.Io, Kind: events.ShadowAppears,
							Compound: &events.Compound{Transits: 1, Shadows: 1}},
					},
				},
				Events: []events.Event{
					{Time: start, Moon: ephem.Europa, Kind: events.Reappears},
				},
			},
			want: []string{
				"Moon events in the next 2 days",
				"Io begins transit",
				"1 transit, 1 shadow:",
				"Io's shadow appears",
				"Europa reappears",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEventsModel().SetSize(100, 40)
			m.loc = time.UTC
			m = m.UpdateData(tt.snap)

			view := stripANSI(m.View())
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q\n%s", want, view)
				}
			}
		})
	}
}

func TestEventsModel_CompoundPrecedesEvent(t *testing.T) {
	at := time.Date(2024, 1, 7, 0, 21, 0, 0, time.UTC)
	m := NewEventsModel().SetSize(100, 40)
	m.loc = time.UTC
	m = m.UpdateData(state.Snapshot{Scan: &state.ScanResult{
		Start: at.Add(-time.Hour),
		End:   at.Add(23 * time.Hour),
		Events: []events.Event{
			{Time: at, Moon: ephem.Europa, Kind: events.ShadowAppears, Compound: &events.Compound{Transits: 1, Shadows: 1}},
		},
	}})

	content := stripANSI(m.renderContent())
	c := strings.Index(content, "1 transit, 1 shadow:")
	e := strings.Index(content, "2024-01-07 00:21 UTC: Europa's shadow appears")
	if c < 0 || e < 0 || c > e {
		t.Errorf("compound line should precede the event:\n%s", content)
	}
}
