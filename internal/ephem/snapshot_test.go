package ephem

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/unit"
)

var ioTransit = time.Date(2024, 1, 2, 13, 45, 0, 0, time.UTC)

func TestComputeReference(t *testing.T) {
	s := Compute(ioTransit)

	tests := []struct {
		name     string
		got      float64
		expected float64
		tol      float64
	}{
		{"days since epoch", s.DaysSinceEpoch, 45292.0729167, 1e-6},
		{"phase angle", float64(s.PhaseAngle), 0.1814336, 1e-6},
		{"sub-earth latitude", float64(s.SubEarthLatitude), 0.0492107, 1e-6},
		{"earth-jupiter distance", s.EarthJupiterDistance, 4.5042201, 1e-6},
		{"system I longitude", s.System1Longitude.Deg(), 0.4806957, 1e-4},
		{"system II longitude", s.System2Longitude.Deg(), 44.1629958, 1e-4},
		{"Io angle", float64(s.MoonAngles[Io]), 0.0021066, 1e-6},
		{"Europa angle", float64(s.MoonAngles[Europa]), 4.7718191, 1e-6},
		{"Ganymede angle", float64(s.MoonAngles[Ganymede]), 2.4755376, 1e-6},
		{"Callisto angle", float64(s.MoonAngles[Callisto]), 5.9078858, 1e-6},
		{"Io distance", s.MoonDistances[Io], 5.9302093, 1e-6},
		{"Europa distance", s.MoonDistances[Europa], 9.4040550, 1e-6},
		{"Ganymede distance", s.MoonDistances[Ganymede], 14.9782929, 1e-6},
		{"Callisto distance", s.MoonDistances[Callisto], 26.5583619, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > tt.tol {
				t.Errorf("%s = %v, want %v (±%v)", tt.name, tt.got, tt.expected, tt.tol)
			}
		})
	}
}

func TestDistancesUseUncorrectedAngles(t *testing.T) {
	s := Compute(ioTransit)

	// The same formula fed with the corrected angles gives a measurably
	// different Io distance.
	fromCorrected := 5.9061 - 0.0244*(2*(s.MoonAngles[Io]-s.MoonAngles[Europa])).Cos()
	if math.Abs(fromCorrected-5.9303398) > 1e-6 {
		t.Fatalf("corrected-angle distance = %v, want 5.9303398", fromCorrected)
	}
	if math.Abs(s.MoonDistances[Io]-fromCorrected) < 1e-4 {
		t.Errorf("Io distance %v matches the corrected-angle value %v", s.MoonDistances[Io], fromCorrected)
	}
}

func TestComputeAngleRanges(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)

	for at := start; at.Before(end); at = at.Add(97*time.Hour + 13*time.Minute) {
		s := Compute(at)
		angles := map[string]unit.Angle{
			"V": s.V, "M": s.M, "N": s.N, "J": s.J, "A": s.A, "B": s.B, "K": s.K,
			"G": s.G, "H": s.H,
			"lambda1": s.System1Longitude, "lambda2": s.System2Longitude,
		}
		for i, u := range s.MoonAngles {
			angles[Moon(i).String()] = u
		}
		for name, a := range angles {
			if a < 0 || a >= 2*math.Pi {
				t.Fatalf("%s at %v = %v, outside [0, 2π)", name, at, a)
			}
		}
		for i, r := range s.MoonDistances {
			if r < 5 || r > 27 {
				t.Fatalf("%v distance at %v = %v planet radii", Moon(i), at, r)
			}
		}
	}
}

func TestPhaseAngleBound(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)

	maxPsi := 0.0
	for at := start; at.Before(end); at = at.Add(24 * time.Hour) {
		s := Compute(at)
		psi := math.Abs(s.PhaseAngle.Deg())
		if math.IsNaN(psi) {
			t.Fatalf("phase angle at %v is NaN", at)
		}
		maxPsi = math.Max(maxPsi, psi)
	}
	if maxPsi > 12.5 {
		t.Errorf("max |ψ| = %.2f°, want ≤ 12.5°", maxPsi)
	}
	if maxPsi < 10 {
		t.Errorf("max |ψ| = %.2f°, expected close to 12° over 40 years", maxPsi)
	}
}

func TestComputeIdempotent(t *testing.T) {
	at := time.Date(2031, 7, 14, 3, 21, 9, 0, time.UTC)
	a := Compute(at)
	b := Compute(at)
	if a != b {
		t.Errorf("Compute is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestSnapshotLongitude(t *testing.T) {
	s := Compute(ioTransit)
	if s.Longitude(SystemI) != s.System1Longitude {
		t.Error("Longitude(SystemI) != System1Longitude")
	}
	if s.Longitude(SystemII) != s.System2Longitude {
		t.Error("Longitude(SystemII) != System2Longitude")
	}
}
