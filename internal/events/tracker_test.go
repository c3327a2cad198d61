package events

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-galilean/internal/ephem"
)

func TestDiff(t *testing.T) {
	visible := Flags{Visible: true}
	hidden := Flags{}

	tests := []struct {
		name     string
		prev     Flags
		cur      Flags
		suppress bool
		want     []Kind
	}{
		{"no change", visible, visible, true, nil},
		{"disappears", visible, hidden, true, []Kind{Disappears}},
		{"reappears", hidden, visible, true, []Kind{Reappears}},
		{"reappears into eclipse", hidden, Flags{Visible: true, Eclipsed: true}, true, nil},
		{"reappears into eclipse, not suppressed", hidden, Flags{Visible: true, Eclipsed: true}, false, []Kind{Reappears}},
		{"transit begins", visible, Flags{Visible: true, Transiting: true}, true, []Kind{TransitBegins}},
		{"transit ends", Flags{Visible: true, Transiting: true}, visible, true, []Kind{TransitEnds}},
		{"eclipse begins", visible, Flags{Visible: true, Eclipsed: true}, true, []Kind{EclipseBegins}},
		{"eclipse ends", Flags{Visible: true, Eclipsed: true}, visible, true, []Kind{EclipseEnds}},
		{"shadow appears", visible, Flags{Visible: true, ShadowVisible: true}, true, []Kind{ShadowAppears}},
		{"shadow disappears", Flags{Visible: true, ShadowVisible: true}, visible, true, []Kind{ShadowDisappears}},
		{
			"visibility wins over transit",
			Flags{Visible: true, Transiting: true}, hidden, true,
			[]Kind{Disappears},
		},
		{
			"transit wins over eclipse",
			Flags{Visible: true, Eclipsed: true}, Flags{Visible: true, Transiting: true}, true,
			[]Kind{TransitBegins},
		},
		{
			"shadow reported alongside transit",
			visible, Flags{Visible: true, Transiting: true, ShadowVisible: true}, true,
			[]Kind{TransitBegins, ShadowAppears},
		},
		{
			"suppressed reappearance still blocks eclipse",
			Flags{Eclipsed: false}, Flags{Visible: true, Eclipsed: true}, true,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.cur, tt.suppress)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrackerPrimesOnFirstStep(t *testing.T) {
	tr := NewTracker(true)
	if tr.Primed() {
		t.Fatal("new tracker is primed")
	}

	start := time.Date(2024, 1, 2, 12, 45, 0, 0, time.UTC)
	if evs := tr.Step(start, ephem.ObserveAll(ephem.Compute(start))); evs != nil {
		t.Errorf("first Step() = %v, want nil", evs)
	}
	if !tr.Primed() {
		t.Fatal("tracker not primed after first step")
	}

	next := start.Add(time.Minute)
	evs := tr.Step(next, ephem.ObserveAll(ephem.Compute(next)))
	want := []Event{{Time: next, Moon: ephem.Io, Kind: TransitBegins}}
	if diff := cmp.Diff(want, evs); diff != "" {
		t.Errorf("Step() mismatch (-want +got):\n%s", diff)
	}
	if cur := tr.Current(); !cur[ephem.Io].Transiting {
		t.Errorf("Current()[Io] = %+v, want transiting", cur[ephem.Io])
	}

	tr.Reset()
	if tr.Primed() {
		t.Error("tracker primed after Reset")
	}
}

func TestTrackerCompound(t *testing.T) {
	tr := NewTracker(true)
	s := ephem.Compute(time.Date(2024, 1, 6, 22, 9, 0, 0, time.UTC))
	tr.Step(s.Time, ephem.ObserveAll(s))

	s = ephem.Compute(time.Date(2024, 1, 6, 22, 10, 0, 0, time.UTC))
	evs := tr.Step(s.Time, ephem.ObserveAll(s))
	if len(evs) != 1 {
		t.Fatalf("Step() = %v, want one event", evs)
	}
	if evs[0].Compound == nil || *evs[0].Compound != (Compound{Transits: 2}) {
		t.Errorf("Compound = %+v, want 2 transits, 0 shadows", evs[0].Compound)
	}
}
