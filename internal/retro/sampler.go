// Package retro derives the apparent longitude of one orbiting body as seen
// from another, and finds the stationary points and retrograde intervals of
// that apparent motion.
//
// Everything here is pure and synchronous. Bad input never panics; it shows
// up as NaN samples, missing events, or undetermined segments.
package retro

import (
	"math"

	"github.com/litescript/ls-retrograde/internal/astro"
	"github.com/litescript/ls-retrograde/internal/kepler"
	"github.com/litescript/ls-retrograde/internal/orbit"
)

// SampleStepDays is the fixed sampling step of every series, and the
// half-width of the local rate probe.
const SampleStepDays = 0.5

// ApparentLongitude returns the direction, in degrees within [0, 360), of the
// line from observer to target in the fixed inertial frame. Both states must
// be taken at the same time. NaN if either position is not finite or the
// two positions coincide.
func ApparentLongitude(observer, target orbit.State) float64 {
	if !observer.Valid() || !target.Valid() {
		return math.NaN()
	}
	d := target.Pos().Sub(observer.Pos())
	if d.X == 0 && d.Y == 0 {
		return math.NaN()
	}
	return astro.EclipticLongitude(d)
}

// RateFunc evaluates the apparent angular rate, in degrees per day, at a time.
type RateFunc func(t float64) float64

// Pair is an observer/target couple with a shared mean-longitude epoch.
type Pair struct {
	Observer      orbit.Elements
	Target        orbit.Elements
	ReferenceTime float64
	Solver        kepler.Solver
}

// NewPair returns a pair using the default Kepler solver.
func NewPair(observer, target orbit.Elements, referenceTime float64) Pair {
	return Pair{
		Observer:      observer,
		Target:        target,
		ReferenceTime: referenceTime,
		Solver:        kepler.DefaultSolver(),
	}
}

// LongitudeAt returns the wrapped apparent longitude of the target at t.
func (p Pair) LongitudeAt(t float64) float64 {
	obs := orbit.StateAtWith(p.Solver, p.Observer, t, p.ReferenceTime)
	tgt := orbit.StateAtWith(p.Solver, p.Target, t, p.ReferenceTime)
	return ApparentLongitude(obs, tgt)
}

// RateAt returns a fresh central-difference estimate of the apparent rate at
// t, independent of any sampled grid. The difference is taken along the
// shortest arc so a 0/360 crossing between the probes does not matter.
func (p Pair) RateAt(t float64) float64 {
	h := SampleStepDays
	before := p.LongitudeAt(t - h)
	after := p.LongitudeAt(t + h)
	if math.IsNaN(before) || math.IsNaN(after) {
		return math.NaN()
	}
	return astro.WrapDeg180(after-before) / (2 * h)
}

// Rate returns RateAt as a RateFunc.
func (p Pair) Rate() RateFunc {
	return p.RateAt
}
