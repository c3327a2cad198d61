package ephem

import (
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/litescript/ls-galilean/internal/astro"
)

// DefaultRedSpotLongitude is the System II longitude of the Great Red Spot
// in degrees. The spot drifts; override it with a current value.
const DefaultRedSpotLongitude = 61.0

// Display latitude of the Red Spot, in planet radii south of the equator as
// drawn with north up.
const redSpotY = 0.42

// FeatureX returns the projected x of a point on Jupiter's equator at the
// given longitude (degrees) in the given system. ok is false when the point
// is on the far hemisphere.
func FeatureX(s Snapshot, longitudeDeg float64, sys System) (x float64, ok bool) {
	a := featureAngle(s, longitudeDeg, sys)
	if a > math.Pi/2 && a < 3*math.Pi/2 {
		return math.NaN(), false
	}
	return a.Sin(), true
}

// RedSpot returns the position of the Great Red Spot at the given System II
// longitude in degrees.
func RedSpot(s Snapshot, longitudeDeg float64) (Point, bool) {
	x, ok := FeatureX(s, longitudeDeg, SystemII)
	if !ok {
		return Point{X: math.NaN(), Y: math.NaN()}, false
	}
	return Point{X: x, Y: redSpotY}, true
}

// featureAngle is the angle of a surface longitude from the central meridian.
func featureAngle(s Snapshot, longitudeDeg float64, sys System) unit.Angle {
	return astro.Normalize(s.Longitude(sys) - unit.AngleFromDeg(longitudeDeg))
}

// MeridianTransits returns the times in [start, start+span) at which a
// surface feature crosses the central meridian, to within a second.
func MeridianTransits(start time.Time, span time.Duration, longitudeDeg float64, sys System) []time.Time {
	const step = time.Minute

	var out []time.Time
	prev, prevOK := FeatureX(Compute(start), longitudeDeg, sys)
	for at := start.Add(step); at.Sub(start) <= span; at = at.Add(step) {
		x, ok := FeatureX(Compute(at), longitudeDeg, sys)
		if prevOK && ok && prev < 0 && x >= 0 {
			if t := refineTransit(at.Add(-step), at, longitudeDeg, sys); t.Sub(start) < span {
				out = append(out, t)
			}
		}
		prev, prevOK = x, ok
	}
	return out
}

// refineTransit bisects [lo, hi] for the zero crossing of the feature's x.
func refineTransit(lo, hi time.Time, longitudeDeg float64, sys System) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if x, _ := FeatureX(Compute(mid), longitudeDeg, sys); x < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
