package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

const (
	// FullTurn is one revolution in radians.
	FullTurn = 2 * math.Pi

	quarterTurn      = math.Pi / 2
	threeQuarterTurn = 3 * math.Pi / 2
)

// Normalize wraps an angle into [0, 2π).
func Normalize(a unit.Angle) unit.Angle {
	a = a.Mod1()
	// Mod1 of a tiny negative angle rounds up to exactly one turn.
	if a >= FullTurn {
		return 0
	}
	return a
}

// NormalizedDeg converts degrees to a normalized angle.
func NormalizedDeg(deg float64) unit.Angle {
	return Normalize(unit.AngleFromDeg(deg))
}

// FacesEarth reports whether an angle measured from inferior conjunction
// (or from the central meridian) lies on the hemisphere turned toward Earth,
// i.e. outside (π/2, 3π/2).
func FacesEarth(a unit.Angle) bool {
	return a < quarterTurn || a > threeQuarterTurn
}

// ClampUnit limits x to [-1, 1] so rounding noise cannot push asin/acos
// arguments out of their domain.
func ClampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Asin returns the arcsine of x with x clamped to [-1, 1].
func Asin(x float64) unit.Angle {
	return unit.Angle(math.Asin(ClampUnit(x)))
}
