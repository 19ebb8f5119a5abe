package retro

import (
	"math"

	"github.com/litescript/ls-retrograde/internal/astro"
)

// Unwrap converts wrapped degrees into a continuous sequence. Each output
// differs from the previous one by the shortest signed step, in (-180, 180],
// between the matching inputs. The first finite sample passes through as is.
//
// A NaN sample produces NaN at that position only; accumulation resumes from
// the last finite sample.
func Unwrap(wrapped []float64) []float64 {
	out := make([]float64, len(wrapped))

	var (
		prevIn, prevOut float64
		havePrev        bool
	)
	for i, v := range wrapped {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		if !havePrev {
			out[i] = v
		} else {
			out[i] = prevOut + astro.WrapDeg180(v-prevIn)
		}
		prevIn, prevOut = v, out[i]
		havePrev = true
	}

	return out
}
