package events

import (
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
)

// Flags are the per-moon booleans that events are derived from.
type Flags struct {
	Visible       bool
	Transiting    bool
	Eclipsed      bool
	ShadowVisible bool
}

// FlagsOf derives the event flags of an observation.
func FlagsOf(o ephem.Observation) Flags {
	return Flags{
		Visible:       o.Visible(),
		Transiting:    o.Transiting(),
		Eclipsed:      o.Eclipsed(),
		ShadowVisible: o.ShadowVisible(),
	}
}

// Diff returns the events implied by a moon going from prev to cur.
//
// At most one of visibility, transit and eclipse changes is reported, in that
// priority; a shadow change is reported independently. When suppress is set a
// reappearance straight into eclipse is not reported, and still takes
// priority over transit and eclipse changes in that sample.
func Diff(prev, cur Flags, suppress bool) []Kind {
	var kinds []Kind

	switch {
	case prev.Visible && !cur.Visible:
		kinds = append(kinds, Disappears)
	case cur.Visible && !prev.Visible:
		if !suppress || !cur.Eclipsed {
			kinds = append(kinds, Reappears)
		}
	case cur.Transiting && !prev.Transiting:
		kinds = append(kinds, TransitBegins)
	case prev.Transiting && !cur.Transiting:
		kinds = append(kinds, TransitEnds)
	case cur.Eclipsed && !prev.Eclipsed:
		kinds = append(kinds, EclipseBegins)
	case prev.Eclipsed && !cur.Eclipsed:
		kinds = append(kinds, EclipseEnds)
	}

	switch {
	case prev.ShadowVisible && !cur.ShadowVisible:
		kinds = append(kinds, ShadowDisappears)
	case cur.ShadowVisible && !prev.ShadowVisible:
		kinds = append(kinds, ShadowAppears)
	}

	return kinds
}

// Tracker holds the previous sample's flags for every moon and turns each new
// sample into events. The first sample only primes it. A Tracker is not safe
// for concurrent use.
type Tracker struct {
	suppress bool
	primed   bool
	prev     [ephem.NumMoons]Flags
}

// NewTracker creates a tracker. suppressEclipsedReappearance hides the
// reappearance of a moon that comes out from behind the disk already eclipsed.
func NewTracker(suppressEclipsedReappearance bool) *Tracker {
	return &Tracker{suppress: suppressEclipsedReappearance}
}

// Step feeds the observations for instant at and returns the events since
// the previous step, in moon order.
func (t *Tracker) Step(at time.Time, obs [ephem.NumMoons]ephem.Observation) []Event {
	var cur [ephem.NumMoons]Flags
	for i := range obs {
		cur[i] = FlagsOf(obs[i])
	}

	if !t.primed {
		t.prev = cur
		t.primed = true
		return nil
	}

	var evs []Event
	var transits, shadows int
	for i, m := range ephem.Moons {
		if cur[i].Transiting {
			transits++
		}
		if cur[i].ShadowVisible {
			shadows++
		}
		for _, k := range Diff(t.prev[i], cur[i], t.suppress) {
			evs = append(evs, Event{Time: at, Moon: m, Kind: k})
		}
	}
	t.prev = cur

	if len(evs) > 0 && transits+shadows > 1 {
		evs[0].Compound = &Compound{Transits: transits, Shadows: shadows}
	}
	return evs
}

// Primed reports whether the tracker has seen at least one sample.
func (t *Tracker) Primed() bool {
	return t.primed
}

// Current returns the flags of the most recent sample.
func (t *Tracker) Current() [ephem.NumMoons]Flags {
	return t.prev
}

// Reset forgets all previous state.
func (t *Tracker) Reset() {
	t.primed = false
	t.prev = [ephem.NumMoons]Flags{}
}
