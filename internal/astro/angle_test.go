package astro

import (
	"math"
	"testing"

	"github.com/soniakeys/unit"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       unit.Angle
		expected float64
	}{
		{"zero", 0, 0},
		{"in range", 1.5, 1.5},
		{"one turn", unit.Angle(FullTurn), 0},
		{"negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"many turns", unit.Angle(10*FullTurn + 1), 1},
		{"tiny negative", -1e-17, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got < 0 || got >= FullTurn {
				t.Fatalf("Normalize(%v) = %v, outside [0, 2π)", tt.in, got)
			}
			if math.Abs(float64(got)-tt.expected) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestNormalizedDeg(t *testing.T) {
	tests := []struct {
		deg      float64
		expected float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{-90, 270},
		{725, 5},
	}

	for _, tt := range tests {
		got := NormalizedDeg(tt.deg).Deg()
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalizedDeg(%v) = %v°, want %v°", tt.deg, got, tt.expected)
		}
	}
}

func TestFacesEarth(t *testing.T) {
	tests := []struct {
		deg      float64
		expected bool
	}{
		{0, true},
		{45, true},
		{89.9, true},
		{90, false},
		{180, false},
		{270, false},
		{270.1, true},
		{359, true},
	}

	for _, tt := range tests {
		if got := FacesEarth(unit.AngleFromDeg(tt.deg)); got != tt.expected {
			t.Errorf("FacesEarth(%v°) = %v, want %v", tt.deg, got, tt.expected)
		}
	}
}

func TestAsinClamps(t *testing.T) {
	if got := Asin(1 + 1e-12); math.IsNaN(float64(got)) || math.Abs(float64(got)-math.Pi/2) > 1e-9 {
		t.Errorf("Asin(1+ε) = %v, want π/2", got)
	}
	if got := Asin(-1 - 1e-12); math.IsNaN(float64(got)) || math.Abs(float64(got)+math.Pi/2) > 1e-9 {
		t.Errorf("Asin(-1-ε) = %v, want -π/2", got)
	}
	if got := Asin(0.5); math.Abs(got.Deg()-30) > 1e-9 {
		t.Errorf("Asin(0.5) = %v°, want 30°", got.Deg())
	}
}
