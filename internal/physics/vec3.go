package physics

import "math"

// Vec3 is a position or direction in world space.
// Y is up; the play field is the x/z plane.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns the squared length of v.
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{v.X, 0, v.Z}
}

// NormalizeOr returns v scaled to unit length, or fallback when v has zero
// (or non-finite) length. fallback is returned as given.
func (v Vec3) NormalizeOr(fallback Vec3) Vec3 {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Scale(1 / l)
}

// RotateY rotates v about the vertical axis by angle radians.
// Positive angles turn +Z towards +X.
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}
