// Package physics provides vector math, sphere overlap tests and a
// broad-phase grid for the play field.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec3) float64 {
	return b.Sub(a).LengthSquared()
}

// SpheresOverlap checks if two spheres touch or overlap.
// Centers exactly ra+rb apart count as touching.
func SpheresOverlap(a Vec3, ra float64, b Vec3, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) <= minDist*minDist
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
