package retro

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-retrograde/internal/kepler"
	"github.com/litescript/ls-retrograde/internal/orbit"
)

// Config holds the tunable limits of event detection.
type Config struct {
	// TimeTolerance stops bisection once the bracket is narrower (days).
	TimeTolerance float64
	// MaxBisect caps bisection steps per bracket.
	MaxBisect int
	// DedupeTolerance merges events closer than this (days).
	DedupeTolerance float64
	// Solver solves Kepler's equation for every position.
	Solver kepler.Solver
}

// DefaultConfig returns the default detection limits.
func DefaultConfig() Config {
	return Config{
		TimeTolerance:   1e-3,
		MaxBisect:       80,
		DedupeTolerance: 1e-6,
		Solver:          kepler.DefaultSolver(),
	}
}

// withDefaults fills unusable limits. The zero Config behaves as
// DefaultConfig.
func (c Config) withDefaults() Config {
	if c == (Config{}) {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if !(c.TimeTolerance > 0) || math.IsInf(c.TimeTolerance, 0) {
		c.TimeTolerance = d.TimeTolerance
	}
	if c.MaxBisect <= 0 {
		c.MaxBisect = d.MaxBisect
	}
	if !(c.DedupeTolerance >= 0) || math.IsInf(c.DedupeTolerance, 0) {
		c.DedupeTolerance = d.DedupeTolerance
	}
	return c
}

// Window is the span of model days to sample.
type Window struct {
	StartDay     float64
	LengthDays   float64
	ReferenceDay float64 // epoch of the elements' reference mean longitudes
}

// EndDay returns the last day of the window.
func (w Window) EndDay() float64 {
	return w.StartDay + w.LengthDays
}

// MaxSamples bounds the size of a series.
const MaxSamples = 1 << 20

// Valid reports whether the window has a finite start and a finite,
// non-negative length that fits within MaxSamples.
func (w Window) Valid() bool {
	if !finite(w.StartDay) || !finite(w.LengthDays) || !finite(w.ReferenceDay) {
		return false
	}
	return w.LengthDays >= 0 && w.LengthDays/SampleStepDays < MaxSamples
}

// Series is the apparent motion of a target seen from an observer over a window.
// Times, Wrapped, Unwrapped and Rate are parallel arrays.
type Series struct {
	Observer orbit.Elements
	Target   orbit.Elements
	Window   Window
	StepDays float64

	Times     []float64
	Wrapped   []float64 // degrees, [0, 360)
	Unwrapped []float64 // degrees, continuous
	Rate      []float64 // degrees per day

	Events    []float64 // stationary days, ascending
	Stations  []Station
	Segments  []Segment
	Intervals []Interval // retrograde only
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Times)
}

// HasNaN reports whether any sample is NaN. Callers should check this
// before displaying a series.
func (s *Series) HasNaN() bool {
	return floats.HasNaN(s.Wrapped) || floats.HasNaN(s.Unwrapped) || floats.HasNaN(s.Rate)
}

// RetrogradeDays returns the total time spent in retrograde motion.
func (s *Series) RetrogradeDays() float64 {
	var total float64
	for _, iv := range s.Intervals {
		total += iv.Duration()
	}
	return total
}

// Compute samples the apparent longitude of target seen from observer over
// the window and extracts stationary events and retrograde intervals.
// An invalid window gives an empty series. Unset limits in cfg take their
// default values.
func Compute(observer, target orbit.Elements, w Window, cfg Config) *Series {
	cfg = cfg.withDefaults()
	s := &Series{
		Observer: observer,
		Target:   target,
		Window:   w,
		StepDays: SampleStepDays,
	}
	if !w.Valid() {
		return s
	}

	s.Times, s.StepDays = grid(w)

	pair := Pair{Observer: observer, Target: target, ReferenceTime: w.ReferenceDay, Solver: cfg.Solver}
	rate := pair.Rate()

	s.Wrapped = make([]float64, len(s.Times))
	for i, t := range s.Times {
		s.Wrapped[i] = pair.LongitudeAt(t)
	}
	s.Unwrapped = Unwrap(s.Wrapped)
	s.Rate = Derivative(s.Unwrapped, s.StepDays)

	s.Events = DetectStations(s.Times, s.Rate, rate, cfg)
	s.Stations = ClassifyStations(s.Events, rate)
	s.Segments = Classify(w.StartDay, w.EndDay(), s.Events, rate)
	s.Intervals = RetrogradeIntervals(s.Segments)

	return s
}

// grid returns evenly spaced days covering the window end to end, with a
// step no larger than SampleStepDays.
func grid(w Window) ([]float64, float64) {
	if w.LengthDays == 0 {
		return []float64{w.StartDay}, SampleStepDays
	}

	n := int(math.Ceil(w.LengthDays/SampleStepDays-1e-9)) + 1
	if n < 2 {
		n = 2
	}
	times := floats.Span(make([]float64, n), w.StartDay, w.EndDay())
	return times, w.LengthDays / float64(n-1)
}
