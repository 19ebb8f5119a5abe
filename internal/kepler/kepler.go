// Package kepler solves Kepler's equation E - e·sin(E) = M for elliptic orbits.
//
// Solutions keep the whole turns present in the mean anomaly, so a series
// built from repeated calls never resets at multiples of 2π. Invalid input
// yields NaN instead of an error; a single bad sample must not abort a series.
package kepler

import (
	"math"

	"github.com/litescript/ls-retrograde/internal/astro"
)

const (
	// DefaultTolerance is the absolute residual accepted for a solution.
	DefaultTolerance = 1e-12

	// DefaultMaxNewton caps Newton iterations before falling back to bisection.
	DefaultMaxNewton = 15

	// DefaultMaxBisect caps bisection iterations.
	DefaultMaxBisect = 200

	// highEccentricity is where the Newton seed switches from M to π.
	highEccentricity = 0.8
)

// Solver holds the tolerances used to solve Kepler's equation.
type Solver struct {
	Tolerance float64
	MaxNewton int
	MaxBisect int
}

// DefaultSolver returns a solver with the default tolerances.
func DefaultSolver() Solver {
	return Solver{
		Tolerance: DefaultTolerance,
		MaxNewton: DefaultMaxNewton,
		MaxBisect: DefaultMaxBisect,
	}
}

// Solve returns the eccentric anomaly for mean anomaly m (radians) and
// eccentricity e using the default solver.
func Solve(m, e float64) float64 {
	return DefaultSolver().Solve(m, e)
}

// withDefaults fills unusable limits. The zero Solver behaves as
// DefaultSolver; otherwise MaxNewton 0 means bisection only.
func (s Solver) withDefaults() Solver {
	if s == (Solver{}) {
		return DefaultSolver()
	}
	if !(s.Tolerance > 0) || math.IsInf(s.Tolerance, 0) {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxNewton < 0 {
		s.MaxNewton = 0
	}
	if s.MaxBisect <= 0 {
		s.MaxBisect = DefaultMaxBisect
	}
	return s
}

// Solve returns the eccentric anomaly in radians for mean anomaly m and
// eccentricity e in [0, 1). m need not be wrapped; its whole turns are
// carried into the result. Returns NaN for non-finite m or e outside [0, 1).
// Non-positive limits fall back to the defaults.
func (s Solver) Solve(m, e float64) float64 {
	if !validInput(m, e) {
		return math.NaN()
	}
	s = s.withDefaults()

	// Circular orbit: E = M exactly
	if e == 0 {
		return m
	}

	wrapped, turns := astro.SplitTurns(m, astro.TwoPi)

	E, ok := Newton(wrapped, e, s.Tolerance, s.MaxNewton)
	if !ok {
		E = Bisect(wrapped, e, s.Tolerance, s.MaxBisect)
	}
	if math.IsNaN(E) {
		return E
	}

	return E + turns*astro.TwoPi
}

// Residual returns E - e·sin(E) - m.
func Residual(E, m, e float64) float64 {
	return E - e*math.Sin(E) - m
}

// Newton runs Newton-Raphson on Kepler's equation for a mean anomaly m already
// wrapped into [0, 2π). It reports ok only when the result's residual is within
// tol; callers fall back to Bisect otherwise.
func Newton(m, e, tol float64, maxIter int) (E float64, ok bool) {
	if !validInput(m, e) {
		return math.NaN(), false
	}

	E = m
	if e > highEccentricity {
		E = math.Pi
	}

	for i := 0; i < maxIter; i++ {
		fp := 1 - e*math.Cos(E)
		if fp == 0 {
			return E, false
		}
		delta := Residual(E, m, e) / fp
		E -= delta

		if math.IsNaN(E) || math.IsInf(E, 0) {
			return E, false
		}
		if math.Abs(delta) < tol {
			break
		}
	}

	return E, math.Abs(Residual(E, m, e)) <= tol
}

// Bisect solves Kepler's equation by bisection on [0, 2π] for a mean anomaly m
// wrapped into [0, 2π). For 0 <= e < 1 the residual is monotonic over one turn,
// so the end points always bracket the root. Returns NaN if they do not.
func Bisect(m, e, tol float64, maxIter int) float64 {
	if !validInput(m, e) {
		return math.NaN()
	}

	lo, hi := 0.0, astro.TwoPi
	flo := Residual(lo, m, e)
	fhi := Residual(hi, m, e)

	if flo == 0 {
		return lo
	}
	if fhi == 0 {
		return hi
	}
	if flo*fhi > 0 {
		return math.NaN()
	}

	for i := 0; i < maxIter && hi-lo > tol; i++ {
		mid := lo + (hi-lo)/2
		fmid := Residual(mid, m, e)
		if fmid == 0 {
			return mid
		}
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2
}

func validInput(m, e float64) bool {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return false
	}
	return e >= 0 && e < 1
}
