package retro

import "math"

// Derivative returns the time derivative of a uniformly sampled series.
// Interior points use central differences, the first point a forward
// difference and the last a backward difference.
//
// A single sample has no derivative and yields one NaN. A non-positive or
// non-finite step yields all NaN.
func Derivative(y []float64, dt float64) []float64 {
	out := make([]float64, len(y))
	if len(y) == 0 {
		return out
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 || len(y) == 1 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	last := len(y) - 1
	out[0] = (y[1] - y[0]) / dt
	out[last] = (y[last] - y[last-1]) / dt
	for i := 1; i < last; i++ {
		out[i] = (y[i+1] - y[i-1]) / (2 * dt)
	}

	return out
}
