package geom

import "math"

// Vector is a point or direction in world space.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + other.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v multiplied by a scalar.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and other.
func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the euclidean magnitude of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// PlanarLength returns the magnitude of v projected on the X/Y plane. Odometer
// and lane-distance bookkeeping ignore vertical motion.
func (v Vector) PlanarLength() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the euclidean distance between two points.
func (v Vector) Distance(other Vector) float64 {
	return v.Sub(other).Length()
}

// PlanarDistance returns the X/Y distance between two points.
func (v Vector) PlanarDistance(other Vector) float64 {
	return v.Sub(other).PlanarLength()
}
