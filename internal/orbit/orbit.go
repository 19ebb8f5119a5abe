// Package orbit computes heliocentric planar positions of bodies on fixed
// Keplerian ellipses.
package orbit

import (
	"math"

	"github.com/litescript/ls-retrograde/internal/astro"
	"github.com/litescript/ls-retrograde/internal/kepler"
)

// GaussK is the Gaussian gravitational constant in radians per day,
// for a in AU and a solar central mass.
const GaussK = 0.01720209895

// Elements describes a planar Keplerian orbit.
// Longitudes are measured in the fixed inertial frame.
type Elements struct {
	SemiMajorAxisAU           float64 // a > 0
	Eccentricity              float64 // 0 <= e < 1
	LongitudeOfPeriapsisDeg   float64 // ϖ
	ReferenceMeanLongitudeDeg float64 // L at the reference time
}

// Valid reports whether the elements describe a bound ellipse.
func (el Elements) Valid() bool {
	if !finite(el.SemiMajorAxisAU) || el.SemiMajorAxisAU <= 0 {
		return false
	}
	if !(el.Eccentricity >= 0 && el.Eccentricity < 1) {
		return false
	}
	return finite(el.LongitudeOfPeriapsisDeg) && finite(el.ReferenceMeanLongitudeDeg)
}

// State is the position of a body at one instant. It is derived on demand
// and never stored. Invalid input gives a state whose fields are all NaN.
type State struct {
	Time float64 // model day

	MeanLongitudeDeg float64 // continuous, not wrapped
	MeanAnomaly      float64 // radians, wrapped into [0, 2π)
	MeanAnomalyTurns float64 // whole turns removed from MeanAnomaly

	EccentricAnomaly float64 // radians, wrapped like MeanAnomaly
	TrueAnomaly      float64 // radians, [0, 2π]
	RadiusAU         float64

	PositionAngleDeg float64 // ϖ + ν, wrapped into [0, 360)
	X, Y             float64 // AU
}

// Pos returns the heliocentric position as a vector in the orbit plane.
func (s State) Pos() astro.Vec3 {
	return astro.Vec3{X: s.X, Y: s.Y}
}

// Valid reports whether the state carries a finite position.
func (s State) Valid() bool {
	return finite(s.X) && finite(s.Y)
}

// NaNState returns a state with every field set to NaN.
func NaNState() State {
	nan := math.NaN()
	return State{
		Time:             nan,
		MeanLongitudeDeg: nan,
		MeanAnomaly:      nan,
		MeanAnomalyTurns: nan,
		EccentricAnomaly: nan,
		TrueAnomaly:      nan,
		RadiusAU:         nan,
		PositionAngleDeg: nan,
		X:                nan,
		Y:                nan,
	}
}

// Period returns the orbital period in days from Kepler's third law,
// or NaN for a non-positive semi-major axis.
func Period(el Elements) float64 {
	n := MeanMotion(el)
	if math.IsNaN(n) {
		return n
	}
	return astro.TwoPi / n
}

// MeanMotion returns the mean motion in radians per day.
func MeanMotion(el Elements) float64 {
	a := el.SemiMajorAxisAU
	if !finite(a) || a <= 0 {
		return math.NaN()
	}
	return GaussK / (a * math.Sqrt(a))
}

// SynodicPeriod returns the time in days between successive returns of two
// bodies to the same relative configuration. Equal periods give +Inf.
func SynodicPeriod(a, b Elements) float64 {
	pa, pb := Period(a), Period(b)
	if math.IsNaN(pa) || math.IsNaN(pb) {
		return math.NaN()
	}
	return 1 / math.Abs(1/pa-1/pb)
}

// StateAt returns the body's state at time t (days). The mean longitude is
// anchored at referenceTime.
func StateAt(el Elements, t, referenceTime float64) State {
	return StateAtWith(kepler.DefaultSolver(), el, t, referenceTime)
}

// StateAtWith is StateAt with an explicit Kepler solver.
func StateAtWith(solver kepler.Solver, el Elements, t, referenceTime float64) State {
	if !el.Valid() || !finite(t) || !finite(referenceTime) {
		return NaNState()
	}

	n := astro.RadToDeg(MeanMotion(el))
	meanLon := el.ReferenceMeanLongitudeDeg + n*(t-referenceTime)

	M, turns := astro.SplitTurns(astro.DegToRad(meanLon-el.LongitudeOfPeriapsisDeg), astro.TwoPi)
	E := solver.Solve(M, el.Eccentricity)
	if math.IsNaN(E) {
		return NaNState()
	}

	e := el.Eccentricity
	sinHalf, cosHalf := math.Sincos(E / 2)
	nu := 2 * math.Atan2(math.Sqrt(1+e)*sinHalf, math.Sqrt(1-e)*cosHalf)
	r := el.SemiMajorAxisAU * (1 - e*math.Cos(E))

	theta := nu + astro.DegToRad(el.LongitudeOfPeriapsisDeg)
	sinT, cosT := math.Sincos(theta)

	return State{
		Time:             t,
		MeanLongitudeDeg: meanLon,
		MeanAnomaly:      M,
		MeanAnomalyTurns: turns,
		EccentricAnomaly: E,
		TrueAnomaly:      nu,
		RadiusAU:         r,
		PositionAngleDeg: astro.Normalize360(astro.RadToDeg(theta)),
		X:                r * cosT,
		Y:                r * sinT,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
