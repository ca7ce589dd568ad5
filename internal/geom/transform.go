package geom

import "math"

// Rotation is an orientation around the Z axis.
type Rotation struct {
	// Yaw is measured in degrees, counter-clockwise from +X.
	Yaw float64 `json:"yaw" yaml:"yaw"`
}

// ForwardVector returns the unit vector the rotation points along.
func (r Rotation) ForwardVector() Vector {
	rad := r.Yaw * math.Pi / 180
	return Vector{X: math.Cos(rad), Y: math.Sin(rad)}
}

// RightVector returns the unit vector 90 degrees clockwise of forward, i.e.
// toward the right-hand side of a vehicle facing along the rotation.
func (r Rotation) RightVector() Vector {
	rad := r.Yaw * math.Pi / 180
	return Vector{X: math.Sin(rad), Y: -math.Cos(rad)}
}

// Transform pairs a world location with an orientation.
type Transform struct {
	Location Vector   `json:"location" yaml:"location"`
	Rotation Rotation `json:"rotation" yaml:"rotation"`
}

// Forward is shorthand for the transform's forward unit vector.
func (t Transform) Forward() Vector {
	return t.Rotation.ForwardVector()
}

// Right is shorthand for the transform's right unit vector.
func (t Transform) Right() Vector {
	return t.Rotation.RightVector()
}

// Shifted returns a copy of the transform translated by offset.
func (t Transform) Shifted(offset Vector) Transform {
	t.Location = t.Location.Add(offset)
	return t
}
