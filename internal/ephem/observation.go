package ephem

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"

	"github.com/litescript/ls-galilean/internal/astro"
)

// Disk thresholds in planet radii.
const (
	// A moon nearer the centre than this is transiting; a far-side shadow
	// nearer than this means the moon is eclipsed.
	innerDiskRadius = 0.9
	// A far-side moon nearer the centre than this is hidden by the planet.
	diskRadius = 1.0
)

// State classifies where a moon is relative to Jupiter's disk.
type State int

const (
	Visible          State = iota // near side, clear of the disk
	Transiting                    // near side, in front of the disk
	HiddenBehindDisk              // far side, occulted by the planet
	FarSideClear                  // far side, visible and sunlit
	FarSideEclipsed               // far side, visible but inside Jupiter's shadow
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Transiting:
		return "transiting"
	case HiddenBehindDisk:
		return "hidden"
	case FarSideClear:
		return "far-side"
	case FarSideEclipsed:
		return "eclipsed"
	default:
		return "unknown"
	}
}

// ErrUnknownState is returned when a state name cannot be parsed.
var ErrUnknownState = errors.New("unknown moon state")

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for st := Visible; st <= FarSideEclipsed; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownState, b)
}

// Point is a position in the plane of the sky, in planet radii from the
// centre of Jupiter's disk. X grows toward the east limb, Y toward north.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the distance of p from the disk centre.
func (p Point) Dist() float64 {
	return math.Hypot(p.X, p.Y)
}

// Observation is the apparent state of one moon in a snapshot. Position and
// shadow are only meaningful where the state allows them; use the accessors.
type Observation struct {
	Moon  Moon
	State State

	raw       Point
	shadow    Point
	hasShadow bool
}

// Observe classifies moon m in snapshot s.
func Observe(s Snapshot, m Moon) Observation {
	u := s.MoonAngles[m]
	r := s.MoonDistances[m]
	sinDe := s.SubEarthLatitude.Sin()

	raw := Point{X: r * u.Sin(), Y: r * u.Cos() * sinDe}
	dist := raw.Dist()

	if astro.FacesEarth(u) {
		o := Observation{Moon: m, State: Visible, raw: raw}
		if dist < innerDiskRadius {
			o.State = Transiting
		}
		sh := shadowAt(s, r, u, sinDe)
		// Only the x extent is checked: the shadow is cast across the disk
		// along the equator.
		if sh.X >= -1 && sh.X <= 1 {
			o.shadow = sh
			o.hasShadow = true
		}
		return o
	}

	if dist < diskRadius {
		return Observation{Moon: m, State: HiddenBehindDisk, raw: raw}
	}

	// Where the moon's shadow would fall if it were on the near side.
	eclipse := shadowAt(s, r, astro.Normalize(u+math.Pi), sinDe)
	if eclipse.Dist() < innerDiskRadius {
		return Observation{Moon: m, State: FarSideEclipsed, raw: raw}
	}
	return Observation{Moon: m, State: FarSideClear, raw: raw}
}

// ObserveAll observes every moon in s, indexed by Moon.
func ObserveAll(s Snapshot) [NumMoons]Observation {
	var obs [NumMoons]Observation
	for _, m := range Moons {
		obs[m] = Observe(s, m)
	}
	return obs
}

func shadowAt(s Snapshot, r float64, u unit.Angle, sinDe float64) Point {
	a := u - s.PhaseAngle
	return Point{X: r * a.Sin(), Y: r * a.Cos() * sinDe}
}

// Position returns the apparent position of the moon. ok is false while the
// moon is hidden behind the disk.
func (o Observation) Position() (p Point, ok bool) {
	if o.State == HiddenBehindDisk {
		return Point{}, false
	}
	return o.raw, true
}

// Shadow returns where the moon's shadow falls on the disk. ok is false when
// no shadow is cast on the visible disk.
func (o Observation) Shadow() (p Point, ok bool) {
	return o.shadow, o.hasShadow
}

// DiskDistance returns the distance of the moon's projected position from
// the disk centre, whether or not it is hidden.
func (o Observation) DiskDistance() float64 {
	return o.raw.Dist()
}

// FarSide reports whether the moon is beyond the planet as seen from Earth.
func (o Observation) FarSide() bool {
	return o.State == HiddenBehindDisk || o.State == FarSideClear || o.State == FarSideEclipsed
}

// Transiting reports whether the moon is in front of the disk.
func (o Observation) Transiting() bool { return o.State == Transiting }

// Eclipsed reports whether the moon is inside Jupiter's shadow.
func (o Observation) Eclipsed() bool { return o.State == FarSideEclipsed }

// Visible reports whether the moon can be seen, ignoring eclipses.
func (o Observation) Visible() bool { return o.State != HiddenBehindDisk }

// ShadowVisible reports whether the moon's shadow is on the disk.
func (o Observation) ShadowVisible() bool { return o.hasShadow }

// XY returns the position with NaN coordinates when hidden.
func (o Observation) XY() (x, y float64) {
	if p, ok := o.Position(); ok {
		return p.X, p.Y
	}
	return math.NaN(), math.NaN()
}

// ShadowXY returns the shadow position with NaN coordinates when absent.
func (o Observation) ShadowXY() (x, y float64) {
	if p, ok := o.Shadow(); ok {
		return p.X, p.Y
	}
	return math.NaN(), math.NaN()
}
