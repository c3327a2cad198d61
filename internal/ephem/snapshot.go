package ephem

import (
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/litescript/ls-galilean/internal/astro"
)

// Light travels one AU in about 1/173 of a day.
const lightDaysPerAU = 1.0 / 173

// Snapshot is the configuration of the Jupiter system at one instant.
// Angles are in radians and, apart from PhaseAngle and SubEarthLatitude,
// normalized to [0, 2π).
type Snapshot struct {
	Time           time.Time
	JulianDay      float64
	DaysSinceEpoch float64 // days since JD 2415020, fraction is time of day

	V unit.Angle // long-period perturbation argument
	M unit.Angle // mean anomaly of Earth
	N unit.Angle // mean anomaly of Jupiter
	J unit.Angle // difference of mean heliocentric longitudes
	A unit.Angle // equation of center, Earth
	B unit.Angle // equation of center, Jupiter
	K unit.Angle

	EarthRadiusVector    float64 // R, AU
	JupiterRadiusVector  float64 // r, AU
	EarthJupiterDistance float64 // Δ, AU

	PhaseAngle       unit.Angle // ψ, signed
	SubEarthLatitude unit.Angle // De, signed

	G unit.Angle
	H unit.Angle

	System1Longitude unit.Angle
	System2Longitude unit.Angle

	MoonAngles    [NumMoons]unit.Angle // from inferior conjunction, corrected
	MoonDistances [NumMoons]float64    // planet radii
}

// Compute evaluates the system at time t.
func Compute(t time.Time) Snapshot {
	s := Snapshot{Time: t, JulianDay: astro.JulianDate(t)}
	d := s.JulianDay - astro.J1900
	s.DaysSinceEpoch = d

	s.V = astro.NormalizedDeg(134.63 + 0.00111587*d)
	sinV := s.V.Sin()
	s.M = astro.NormalizedDeg(358.476 + 0.9856003*d)
	s.N = astro.NormalizedDeg(225.328 + 0.0830853*d + 0.33*sinV)
	s.J = astro.NormalizedDeg(221.647 + 0.9025179*d - 0.33*sinV)

	s.A = astro.NormalizedDeg(1.916*s.M.Sin() + 0.020*(2*s.M).Sin())
	s.B = astro.NormalizedDeg(5.552*s.N.Sin() + 0.167*(2*s.N).Sin())
	s.K = astro.Normalize(s.J + s.A - s.B)

	R := 1.00014 - 0.01672*s.M.Cos() - 0.00014*(2*s.M).Cos()
	r := 5.20867 - 0.25192*s.N.Cos() - 0.00610*(2*s.N).Cos()
	delta := math.Sqrt(r*r + R*R - 2*r*R*s.K.Cos())
	s.EarthRadiusVector = R
	s.JupiterRadiusVector = r
	s.EarthJupiterDistance = delta

	s.PhaseAngle = astro.Asin(R / delta * s.K.Sin())
	psi, b := s.PhaseAngle, s.B

	// Everything seen at Jupiter is retarded by the light time.
	tl := d - delta*lightDaysPerAU

	s.System1Longitude = astro.Normalize(unit.AngleFromDeg(268.28+877.8169088*tl) + psi - b)
	s.System2Longitude = astro.Normalize(unit.AngleFromDeg(290.28+870.1869088*tl) + psi - b)

	u := [NumMoons]unit.Angle{
		astro.Normalize(unit.AngleFromDeg(84.5506+203.4058630*tl) + psi - b),
		astro.Normalize(unit.AngleFromDeg(41.5015+101.2916323*tl) + psi - b),
		astro.Normalize(unit.AngleFromDeg(109.9770+50.2345169*tl) + psi - b),
		astro.Normalize(unit.AngleFromDeg(176.3586+21.4879802*tl) + psi - b),
	}

	lambda := astro.Normalize(unit.AngleFromDeg(238.05+0.083091*d+0.33*sinV) + b)
	s.SubEarthLatitude = unit.AngleFromDeg(
		3.07*(lambda+unit.AngleFromDeg(44.5)).Sin() -
			2.15*psi.Sin()*(lambda-unit.AngleFromDeg(24)).Cos() -
			1.31*(r-delta)/delta*(lambda-unit.AngleFromDeg(99.4)).Sin())

	s.G = astro.NormalizedDeg(187.3 + 50.310674*tl)
	s.H = astro.NormalizedDeg(311.1 + 21.569229*tl)

	// Distances use the uncorrected angles.
	s.MoonDistances = [NumMoons]float64{
		5.9061 - 0.0244*(2*(u[0]-u[1])).Cos(),
		9.3972 - 0.0889*(2*(u[1]-u[2])).Cos(),
		14.9894 - 0.0227*s.G.Cos(),
		26.3649 - 0.1944*s.H.Cos(),
	}

	s.MoonAngles = [NumMoons]unit.Angle{
		astro.Normalize(u[0] + unit.AngleFromDeg(0.472*(2*(u[0]-u[1])).Sin())),
		astro.Normalize(u[1] + unit.AngleFromDeg(1.073*(2*(u[1]-u[2])).Sin())),
		astro.Normalize(u[2] + unit.AngleFromDeg(0.174*s.G.Sin())),
		astro.Normalize(u[3] + unit.AngleFromDeg(0.845*s.H.Sin())),
	}

	return s
}

// Longitude returns the central-meridian longitude for the given system.
func (s Snapshot) Longitude(sys System) unit.Angle {
	if sys == SystemI {
		return s.System1Longitude
	}
	return s.System2Longitude
}
