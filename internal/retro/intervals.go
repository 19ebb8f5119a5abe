package retro

// Motion is the sense of apparent motion over a segment of the timeline.
type Motion int

const (
	MotionUndetermined Motion = iota // midpoint rate not finite
	MotionDirect                     // rate >= 0
	MotionRetrograde                 // rate < 0
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case MotionDirect:
		return "direct"
	case MotionRetrograde:
		return "retrograde"
	default:
		return "undetermined"
	}
}

// Interval is a span of model days with StartDay < EndDay.
type Interval struct {
	StartDay float64
	EndDay   float64
}

// Duration returns the interval length in days.
func (iv Interval) Duration() float64 {
	return iv.EndDay - iv.StartDay
}

// Midpoint returns the day halfway through the interval.
func (iv Interval) Midpoint() float64 {
	return iv.StartDay + iv.Duration()/2
}

// Contains reports whether day lies within [StartDay, EndDay].
func (iv Interval) Contains(day float64) bool {
	return day >= iv.StartDay && day <= iv.EndDay
}

// Segment is one piece of the window between consecutive cut points.
type Segment struct {
	Interval
	Motion  Motion
	MidRate float64
}

// Classify cuts [start, end] at the given sorted events and labels each
// non-degenerate piece by the sign of rate at its midpoint. The segments
// tile the window in ascending order.
func Classify(start, end float64, events []float64, rate RateFunc) []Segment {
	if !finite(start) || !finite(end) || end <= start {
		return nil
	}

	cuts := make([]float64, 0, len(events)+2)
	cuts = append(cuts, start)
	for _, ev := range events {
		if ev > start && ev < end && ev > cuts[len(cuts)-1] {
			cuts = append(cuts, ev)
		}
	}
	cuts = append(cuts, end)

	segments := make([]Segment, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		iv := Interval{StartDay: cuts[i], EndDay: cuts[i+1]}
		if iv.Duration() <= 0 {
			continue
		}

		r := rate(iv.Midpoint())
		motion := MotionUndetermined
		switch {
		case !finite(r):
		case r < 0:
			motion = MotionRetrograde
		default:
			motion = MotionDirect
		}
		segments = append(segments, Segment{Interval: iv, Motion: motion, MidRate: r})
	}

	return segments
}

// RetrogradeIntervals returns the retrograde segments as plain intervals.
func RetrogradeIntervals(segments []Segment) []Interval {
	var out []Interval
	for _, s := range segments {
		if s.Motion == MotionRetrograde {
			out = append(out, s.Interval)
		}
	}
	return out
}
