package retro

import (
	"math"
	"testing"

	"github.com/litescript/ls-retrograde/internal/astro"
	"github.com/litescript/ls-retrograde/internal/orbit"
)

func TestApparentLongitude(t *testing.T) {
	tests := []struct {
		name     string
		obs, tgt orbit.State
		want     float64
	}{
		{"target due +X", orbit.State{X: 1, Y: 0}, orbit.State{X: 3, Y: 0}, 0},
		{"target due +Y", orbit.State{X: 1, Y: 0}, orbit.State{X: 1, Y: 2}, 90},
		{"target behind the Sun", orbit.State{X: 1, Y: 0}, orbit.State{X: -1.5, Y: 0}, 180},
		{"target due -Y", orbit.State{X: 0, Y: 1}, orbit.State{X: 0, Y: -1}, 270},
		{"diagonal", orbit.State{X: 0, Y: 0}, orbit.State{X: -1, Y: -1}, 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApparentLongitude(tt.obs, tt.tgt)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ApparentLongitude() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApparentLongitudeNaN(t *testing.T) {
	good := orbit.State{X: 1, Y: 0}
	if got := ApparentLongitude(orbit.NaNState(), good); !math.IsNaN(got) {
		t.Errorf("NaN observer: got %v, want NaN", got)
	}
	if got := ApparentLongitude(good, orbit.NaNState()); !math.IsNaN(got) {
		t.Errorf("NaN target: got %v, want NaN", got)
	}
	if got := ApparentLongitude(good, good); !math.IsNaN(got) {
		t.Errorf("coincident positions: got %v, want NaN", got)
	}
}

func TestPairZeroSolver(t *testing.T) {
	p := Pair{Observer: earth, Target: mars}
	want := NewPair(earth, mars, 0)

	for _, day := range []float64{0, 100, 400} {
		got := p.LongitudeAt(day)
		if math.Abs(got-want.LongitudeAt(day)) > 1e-9 {
			t.Errorf("LongitudeAt(%v) = %v, want %v", day, got, want.LongitudeAt(day))
		}
	}
	if p.LongitudeAt(0) == p.LongitudeAt(100) {
		t.Error("longitude should move over 100 days")
	}
}

func TestPairRateAtOpposition(t *testing.T) {
	// Circular coplanar orbits lined up at t=0: the outer body moves
	// backwards at (n2·a2 - n1·a1) / (a2 - a1).
	inner := orbit.Elements{SemiMajorAxisAU: 1}
	outer := orbit.Elements{SemiMajorAxisAU: 4}
	p := NewPair(inner, outer, 0)

	n1 := astro.RadToDeg(orbit.MeanMotion(inner))
	n2 := astro.RadToDeg(orbit.MeanMotion(outer))
	want := (n2*4 - n1*1) / (4 - 1)

	// The probes straddle the 0/360 seam here
	got := p.RateAt(0)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("RateAt(0) = %v, want %v", got, want)
	}
	if got >= 0 {
		t.Errorf("RateAt(0) = %v, want retrograde", got)
	}
}

func TestPairLongitudeAtInvalid(t *testing.T) {
	p := NewPair(orbit.Elements{SemiMajorAxisAU: 1, Eccentricity: 1}, orbit.Elements{SemiMajorAxisAU: 2}, 0)
	if got := p.LongitudeAt(10); !math.IsNaN(got) {
		t.Errorf("LongitudeAt() = %v, want NaN", got)
	}
	if got := p.RateAt(10); !math.IsNaN(got) {
		t.Errorf("RateAt() = %v, want NaN", got)
	}
}
