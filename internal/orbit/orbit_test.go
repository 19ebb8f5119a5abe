package orbit

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/litescript/ls-retrograde/internal/astro"
)

var (
	earth = Elements{SemiMajorAxisAU: 1.00000261, Eccentricity: 0.01671123, LongitudeOfPeriapsisDeg: 102.93768193, ReferenceMeanLongitudeDeg: 100.46457166}
	mars  = Elements{SemiMajorAxisAU: 1.52371034, Eccentricity: 0.09339410, LongitudeOfPeriapsisDeg: -23.94362959, ReferenceMeanLongitudeDeg: -4.55343205}
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		name string
		el   Elements
		want float64
		tol  float64
	}{
		{"1 AU", Elements{SemiMajorAxisAU: 1}, 365.2569, 0.001},
		{"Earth", earth, 365.26, 0.01},
		{"Mars", mars, 686.98, 0.1},
		{"4 AU is 8 years", Elements{SemiMajorAxisAU: 4}, 8 * 365.2569, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Period(tt.el)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Period() = %v, want %v (±%v)", got, tt.want, tt.tol)
			}
		})
	}

	if got := Period(Elements{SemiMajorAxisAU: 0}); !math.IsNaN(got) {
		t.Errorf("Period(a=0) = %v, want NaN", got)
	}
}

func TestSynodicPeriod(t *testing.T) {
	got := SynodicPeriod(earth, mars)
	if math.Abs(got-779.9) > 1 {
		t.Errorf("Earth-Mars synodic period = %v, want ~780", got)
	}
	if got := SynodicPeriod(earth, earth); !math.IsInf(got, 1) {
		t.Errorf("SynodicPeriod of identical orbits = %v, want +Inf", got)
	}
}

func TestStateAtCircular(t *testing.T) {
	el := Elements{SemiMajorAxisAU: 2, LongitudeOfPeriapsisDeg: 0, ReferenceMeanLongitudeDeg: 30}

	s := StateAt(el, 10, 10)
	if !scalar.EqualWithinAbs(s.X, 2*math.Cos(astro.DegToRad(30)), 1e-12) ||
		!scalar.EqualWithinAbs(s.Y, 2*math.Sin(astro.DegToRad(30)), 1e-12) {
		t.Errorf("position = (%v, %v), want 2 AU at 30°", s.X, s.Y)
	}
	if !scalar.EqualWithinAbs(s.RadiusAU, 2, 1e-12) {
		t.Errorf("RadiusAU = %v, want 2", s.RadiusAU)
	}

	// A quarter period later the body is 90° further on
	q := StateAt(el, 10+Period(el)/4, 10)
	if !scalar.EqualWithinAbs(q.PositionAngleDeg, 120, 1e-9) {
		t.Errorf("PositionAngleDeg after quarter period = %v, want 120", q.PositionAngleDeg)
	}
}

func TestStateAtPeriapsisApoapsis(t *testing.T) {
	el := Elements{SemiMajorAxisAU: 1.5, Eccentricity: 0.4, LongitudeOfPeriapsisDeg: 90, ReferenceMeanLongitudeDeg: 90}

	peri := StateAt(el, 0, 0)
	if !scalar.EqualWithinAbs(peri.RadiusAU, 1.5*0.6, 1e-12) {
		t.Errorf("periapsis radius = %v, want %v", peri.RadiusAU, 0.9)
	}
	if !scalar.EqualWithinAbs(peri.X, 0, 1e-12) || !scalar.EqualWithinAbs(peri.Y, 0.9, 1e-12) {
		t.Errorf("periapsis position = (%v, %v), want (0, 0.9)", peri.X, peri.Y)
	}

	apo := StateAt(el, Period(el)/2, 0)
	if !scalar.EqualWithinAbs(apo.RadiusAU, 1.5*1.4, 1e-9) {
		t.Errorf("apoapsis radius = %v, want %v", apo.RadiusAU, 2.1)
	}
	if !scalar.EqualWithinAbs(apo.Y, -2.1, 1e-9) {
		t.Errorf("apoapsis Y = %v, want -2.1", apo.Y)
	}
}

func TestStateAtConicGeometry(t *testing.T) {
	// r must agree with the polar conic equation for every true anomaly
	for day := 0.0; day < 700; day += 13.7 {
		s := StateAt(mars, day, 0)
		e := mars.Eccentricity
		p := mars.SemiMajorAxisAU * (1 - e*e)
		want := p / (1 + e*math.Cos(s.TrueAnomaly))
		if !scalar.EqualWithinAbs(s.RadiusAU, want, 1e-12) {
			t.Errorf("day %v: r = %v, conic gives %v", day, s.RadiusAU, want)
		}
		if !scalar.EqualWithinAbs(math.Hypot(s.X, s.Y), s.RadiusAU, 1e-12) {
			t.Errorf("day %v: |pos| = %v, r = %v", day, math.Hypot(s.X, s.Y), s.RadiusAU)
		}
		if s.RadiusAU < mars.SemiMajorAxisAU*(1-e)-1e-12 || s.RadiusAU > mars.SemiMajorAxisAU*(1+e)+1e-12 {
			t.Errorf("day %v: r = %v outside [q, Q]", day, s.RadiusAU)
		}
	}
}

func TestStateAtMeanLongitudeContinuous(t *testing.T) {
	prev := StateAt(earth, 0, 0)
	for day := 1.0; day <= 3000; day++ {
		s := StateAt(earth, day, 0)
		step := s.MeanLongitudeDeg - prev.MeanLongitudeDeg
		if !scalar.EqualWithinAbs(step, 360/Period(earth), 1e-9) {
			t.Fatalf("day %v: mean longitude step %v", day, step)
		}
		if s.MeanAnomaly < 0 || s.MeanAnomaly >= astro.TwoPi {
			t.Fatalf("day %v: MeanAnomaly %v not wrapped", day, s.MeanAnomaly)
		}
		prev = s
	}
	if prev.MeanAnomalyTurns < 7 {
		t.Errorf("after 3000 days MeanAnomalyTurns = %v, want >= 7", prev.MeanAnomalyTurns)
	}
}

func TestStateAtInvalid(t *testing.T) {
	tests := []struct {
		name string
		el   Elements
		t    float64
	}{
		{"parabolic", Elements{SemiMajorAxisAU: 1, Eccentricity: 1}, 0},
		{"negative eccentricity", Elements{SemiMajorAxisAU: 1, Eccentricity: -0.1}, 0},
		{"zero axis", Elements{SemiMajorAxisAU: 0}, 0},
		{"negative axis", Elements{SemiMajorAxisAU: -1}, 0},
		{"NaN periapsis", Elements{SemiMajorAxisAU: 1, LongitudeOfPeriapsisDeg: math.NaN()}, 0},
		{"infinite mean longitude", Elements{SemiMajorAxisAU: 1, ReferenceMeanLongitudeDeg: math.Inf(1)}, 0},
		{"NaN time", earth, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StateAt(tt.el, tt.t, 0)
			v := reflect.ValueOf(s)
			for i := 0; i < v.NumField(); i++ {
				if f := v.Field(i).Float(); !math.IsNaN(f) {
					t.Errorf("field %s = %v, want NaN", v.Type().Field(i).Name, f)
				}
			}
			if s.Valid() {
				t.Error("Valid() = true for NaN state")
			}
		})
	}
}

func TestElementsValid(t *testing.T) {
	if !earth.Valid() || !mars.Valid() {
		t.Error("planet elements reported invalid")
	}
	if (Elements{SemiMajorAxisAU: 1, Eccentricity: 0.99999}).Valid() == false {
		t.Error("e just below 1 reported invalid")
	}
}
