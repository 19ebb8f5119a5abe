package astro

import (
	"math"
	"testing"
)

func TestNormalize360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{725, 5},
		{-10, 350},
		{-720, 0},
		{-1e-14, 0}, // rounds to 360, then wraps
	}

	for _, tt := range tests {
		got := Normalize360(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize360(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Normalize360(%v) = %v out of [0, 360)", tt.in, got)
		}
	}
}

func TestWrapDeg180(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{10, 10},
		{-10, -10},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{350, -10},
		{-353, 7},
		{720 + 5, 5},
	}

	for _, tt := range tests {
		got := WrapDeg180(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapDeg180(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -180 || got > 180 {
			t.Errorf("WrapDeg180(%v) = %v out of (-180, 180]", tt.in, got)
		}
	}
}

func TestSplitTurns(t *testing.T) {
	tests := []struct {
		name        string
		x           float64
		wantWrapped float64
		wantTurns   float64
	}{
		{"zero", 0, 0, 0},
		{"inside first turn", 1, 1, 0},
		{"exactly one turn", TwoPi, 0, 1},
		{"negative", -1, TwoPi - 1, -1},
		{"many turns", 1000*TwoPi + 0.25, 0.25, 1000},
		{"many negative turns", -1000*TwoPi + 0.25, 0.25, -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, n := SplitTurns(tt.x, TwoPi)
			if math.Abs(w-tt.wantWrapped) > 1e-9 {
				t.Errorf("wrapped = %v, want %v", w, tt.wantWrapped)
			}
			if n != tt.wantTurns {
				t.Errorf("turns = %v, want %v", n, tt.wantTurns)
			}
			if w < 0 || w >= TwoPi {
				t.Errorf("wrapped = %v out of [0, 2π)", w)
			}
			if math.Abs(w+n*TwoPi-tt.x) > 1e-9 {
				t.Errorf("recombined %v, want %v", w+n*TwoPi, tt.x)
			}
		})
	}
}

func TestSplitTurnsInvalid(t *testing.T) {
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w, n := SplitTurns(x, 360)
		if !math.IsNaN(w) || !math.IsNaN(n) {
			t.Errorf("SplitTurns(%v) = (%v, %v), want NaN", x, w, n)
		}
	}
	if w, _ := SplitTurns(1, 0); !math.IsNaN(w) {
		t.Errorf("SplitTurns with zero period = %v, want NaN", w)
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, -30} {
		if got := RadToDeg(DegToRad(deg)); math.Abs(got-deg) > 1e-12 {
			t.Errorf("round trip %v = %v", deg, got)
		}
	}
}
