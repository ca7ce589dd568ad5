package geom

import "math"

// BoundingBox describes an actor's collision volume by its half-sizes: X along
// the actor's forward axis, Y across it, Z up.
type BoundingBox struct {
	Extent Vector `json:"extent" yaml:"extent"`
}

// worldHalfSizes projects the oriented box onto the world axes, yielding the
// half-sizes of its axis-aligned footprint.
func worldHalfSizes(rot Rotation, box BoundingBox) (hx, hy float64) {
	rad := rot.Yaw * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	hx = box.Extent.X*c + box.Extent.Y*s
	hy = box.Extent.X*s + box.Extent.Y*c
	return hx, hy
}

// Overlaps reports whether two boxes placed at the given transforms intersect,
// comparing their axis-aligned world footprints. Exact for unrotated actors,
// slightly conservative for rotated ones; the collision criterion only needs a
// binary touched/not-touched answer.
func Overlaps(a Transform, boxA BoundingBox, b Transform, boxB BoundingBox) bool {
	axA, ayA := worldHalfSizes(a.Rotation, boxA)
	axB, ayB := worldHalfSizes(b.Rotation, boxB)
	if math.Abs(a.Location.X-b.Location.X) > axA+axB {
		return false
	}
	if math.Abs(a.Location.Y-b.Location.Y) > ayA+ayB {
		return false
	}
	return math.Abs(a.Location.Z-b.Location.Z) <= boxA.Extent.Z+boxB.Extent.Z
}
