package retro

import (
	"math"
	"sort"
)

// StationKind tells which way the apparent motion turns at a stationary point.
type StationKind int

const (
	StationUnknown    StationKind = iota // rate does not change sign across the event
	StationRetrograde                    // direct to retrograde
	StationDirect                        // retrograde to direct
)

// String returns the station kind name.
func (k StationKind) String() string {
	switch k {
	case StationRetrograde:
		return "retrograde"
	case StationDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Station is a stationary event with the direction the motion turns to.
type Station struct {
	Day  float64
	Kind StationKind
}

// DetectStations returns the times, ascending, at which the continuous rate
// crosses zero. Coarse sign changes in rates bracket each crossing, and each
// bracket is refined by bisection on rate rather than on the coarse samples.
// A sample that is exactly zero is an event at that sample's time.
//
// times and rates must be the same length. Non-finite rates are skipped.
func DetectStations(times, rates []float64, rate RateFunc, cfg Config) []float64 {
	cfg = cfg.withDefaults()
	n := len(rates)
	if len(times) < n {
		n = len(times)
	}

	var events []float64
	for i := 0; i < n; i++ {
		d := rates[i]
		if !finite(d) {
			continue
		}
		if d == 0 {
			events = append(events, times[i])
			continue
		}
		if i+1 >= n {
			continue
		}

		// A zero at i+1 is reported on its own iteration
		next := rates[i+1]
		if !finite(next) || next == 0 {
			continue
		}
		if (d < 0) != (next < 0) {
			events = append(events, refine(rate, times[i], times[i+1], cfg))
		}
	}

	sort.Float64s(events)
	return dedupe(events, cfg.DedupeTolerance)
}

// refine bisects [lo, hi] for a zero of rate. When the probe is not finite at
// an end point or the ends do not bracket a sign change, it gives up and
// returns the current bracket midpoint.
func refine(rate RateFunc, lo, hi float64, cfg Config) float64 {
	flo, fhi := rate(lo), rate(hi)
	if !finite(flo) || !finite(fhi) {
		return lo + (hi-lo)/2
	}
	if flo == 0 {
		return lo
	}
	if fhi == 0 {
		return hi
	}
	if (flo < 0) == (fhi < 0) {
		return lo + (hi-lo)/2
	}

	for i := 0; i < cfg.MaxBisect && hi-lo > cfg.TimeTolerance; i++ {
		mid := lo + (hi-lo)/2
		fmid := rate(mid)
		if !finite(fmid) || fmid == 0 {
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

// dedupe drops every event within tol of the last kept one. events must be sorted.
func dedupe(events []float64, tol float64) []float64 {
	if len(events) == 0 {
		return nil
	}
	out := events[:1]
	for _, ev := range events[1:] {
		if ev-out[len(out)-1] <= tol {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// ClassifyStations labels each event by the sign of rate one probe step
// either side of it.
func ClassifyStations(events []float64, rate RateFunc) []Station {
	stations := make([]Station, len(events))
	for i, ev := range events {
		before := rate(ev - SampleStepDays)
		after := rate(ev + SampleStepDays)

		kind := StationUnknown
		switch {
		case before > 0 && after < 0:
			kind = StationRetrograde
		case before < 0 && after > 0:
			kind = StationDirect
		}
		stations[i] = Station{Day: ev, Kind: kind}
	}
	return stations
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
