package astro

import "math"

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Normalize360 wraps an angle in degrees into [0, 360).
func Normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// a tiny negative remainder rounds up to exactly 360 above
	if a >= 360 {
		a -= 360
	}
	return a
}

// WrapDeg180 wraps an angle difference in degrees into (-180, 180].
// This is the shortest signed step between two directions.
func WrapDeg180(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// SplitTurns factors x into a remainder in [0, period) and a whole number
// of turns, so that x == wrapped + turns*period up to rounding.
// Non-finite input, or a non-positive period, yields NaN for both.
func SplitTurns(x, period float64) (wrapped, turns float64) {
	if !isFinite(x) || !isFinite(period) || period <= 0 {
		return math.NaN(), math.NaN()
	}

	turns = math.Floor(x / period)
	wrapped = x - turns*period

	// Floor can land one turn off when x/period rounds across an integer
	if wrapped < 0 {
		wrapped += period
		turns--
	} else if wrapped >= period {
		wrapped -= period
		turns++
	}
	return wrapped, turns
}
