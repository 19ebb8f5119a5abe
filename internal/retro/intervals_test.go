package retro

import (
	"math"
	"testing"
)

func TestClassifyTilesWindow(t *testing.T) {
	rate := func(t float64) float64 { return math.Cos(t / 10) }
	events := []float64{5 * math.Pi, 15 * math.Pi, 25 * math.Pi}

	segs := Classify(0, 100, events, rate)
	if len(segs) != 4 {
		t.Fatalf("got %d segments, want 4", len(segs))
	}
	if segs[0].StartDay != 0 || segs[len(segs)-1].EndDay != 100 {
		t.Errorf("segments span [%v, %v], want [0, 100]", segs[0].StartDay, segs[len(segs)-1].EndDay)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].StartDay != segs[i-1].EndDay {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
	}

	wantMotion := []Motion{MotionDirect, MotionRetrograde, MotionDirect, MotionRetrograde}
	for i, want := range wantMotion {
		if segs[i].Motion != want {
			t.Errorf("segment %d motion = %v, want %v", i, segs[i].Motion, want)
		}
	}

	ivs := RetrogradeIntervals(segs)
	if len(ivs) != 2 {
		t.Fatalf("got %d retrograde intervals, want 2", len(ivs))
	}
	for _, iv := range ivs {
		if !(iv.StartDay < iv.EndDay) {
			t.Errorf("interval %+v not ordered", iv)
		}
		if r := rate(iv.Midpoint()); r >= 0 {
			t.Errorf("interval %+v midpoint rate %v, want negative", iv, r)
		}
	}
}

func TestClassifyNoEvents(t *testing.T) {
	segs := Classify(10, 20, nil, func(float64) float64 { return -1 })
	if len(segs) != 1 || segs[0].Motion != MotionRetrograde {
		t.Fatalf("got %+v, want one retrograde segment", segs)
	}
	if segs[0].Interval != (Interval{StartDay: 10, EndDay: 20}) {
		t.Errorf("segment = %+v, want [10, 20]", segs[0].Interval)
	}
}

func TestClassifyZeroRateIsDirect(t *testing.T) {
	segs := Classify(0, 1, nil, func(float64) float64 { return 0 })
	if segs[0].Motion != MotionDirect {
		t.Errorf("zero rate gave %v, want direct", segs[0].Motion)
	}
	if ivs := RetrogradeIntervals(segs); len(ivs) != 0 {
		t.Errorf("zero rate gave retrograde intervals %v", ivs)
	}
}

func TestClassifyUndetermined(t *testing.T) {
	segs := Classify(0, 10, []float64{5}, func(float64) float64 { return math.NaN() })
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	for _, s := range segs {
		if s.Motion != MotionUndetermined {
			t.Errorf("segment %+v motion = %v, want undetermined", s.Interval, s.Motion)
		}
	}
	if ivs := RetrogradeIntervals(segs); len(ivs) != 0 {
		t.Errorf("NaN rate gave retrograde intervals %v", ivs)
	}
}

func TestClassifyDegenerate(t *testing.T) {
	rate := func(float64) float64 { return -1 }

	// Events on the window edges or repeated add no empty segments
	segs := Classify(0, 10, []float64{0, 4, 4, 10}, rate)
	if len(segs) != 2 {
		t.Fatalf("got %d segments %+v, want 2", len(segs), segs)
	}
	for _, s := range segs {
		if s.Duration() <= 0 {
			t.Errorf("degenerate segment %+v", s.Interval)
		}
	}

	if segs := Classify(5, 5, nil, rate); segs != nil {
		t.Errorf("zero-length window gave %+v", segs)
	}
	if segs := Classify(5, 1, nil, rate); segs != nil {
		t.Errorf("reversed window gave %+v", segs)
	}
}

func TestIntervalHelpers(t *testing.T) {
	iv := Interval{StartDay: 2, EndDay: 6}
	if iv.Duration() != 4 {
		t.Errorf("Duration() = %v, want 4", iv.Duration())
	}
	if iv.Midpoint() != 4 {
		t.Errorf("Midpoint() = %v, want 4", iv.Midpoint())
	}
	if !iv.Contains(2) || !iv.Contains(6) || iv.Contains(6.1) {
		t.Error("Contains() wrong at the edges")
	}
}

func TestMotionString(t *testing.T) {
	tests := []struct {
		m    Motion
		want string
	}{
		{MotionDirect, "direct"},
		{MotionRetrograde, "retrograde"},
		{MotionUndetermined, "undetermined"},
		{Motion(9), "undetermined"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Motion(%d).String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}
