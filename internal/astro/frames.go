// Package astro provides vector and angle helpers for heliocentric geometry.
package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
// Planar orbits leave Z at zero.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector,
// in [0, 360). A non-finite vector yields NaN.
func EclipticLongitude(v Vec3) float64 {
	if !v.IsFinite() {
		return math.NaN()
	}
	return Normalize360(RadToDeg(math.Atan2(v.Y, v.X)))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
