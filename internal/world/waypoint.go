package world

import "github.com/kerbworks/scenic/internal/geom"

// Waypoint is a lane-relative reference point. Scenarios position actors by
// walking waypoints along and across lanes instead of doing raw coordinate
// math.
type Waypoint struct {
	m    *Map
	lane *Lane
	s    float64
}

// LaneID returns the identifier of the waypoint's lane.
func (w *Waypoint) LaneID() string {
	return w.lane.ID
}

// LaneType returns the type of the waypoint's lane.
func (w *Waypoint) LaneType() LaneType {
	return w.lane.Type
}

// LaneWidth returns the lane width at the waypoint.
func (w *Waypoint) LaneWidth() float64 {
	return w.lane.Width
}

// S returns the waypoint's arc length from the lane origin.
func (w *Waypoint) S() float64 {
	return w.s
}

// Transform returns the waypoint's world transform, oriented along the lane.
func (w *Waypoint) Transform() geom.Transform {
	tf := w.lane.Origin
	tf.Location = tf.Location.Add(tf.Forward().Scale(w.s))
	return tf
}

// Next returns waypoints d metres further along the lane. The result is empty
// when the step runs past the lane end, which callers treat as "no viable
// position".
func (w *Waypoint) Next(d float64) []*Waypoint {
	target := w.s + d
	if d <= 0 || target > w.lane.Length {
		return nil
	}
	return []*Waypoint{{m: w.m, lane: w.lane, s: target}}
}

// Previous returns waypoints d metres back along the lane, or an empty result
// when the step runs past the lane start.
func (w *Waypoint) Previous(d float64) []*Waypoint {
	target := w.s - d
	if d <= 0 || target < 0 {
		return nil
	}
	return []*Waypoint{{m: w.m, lane: w.lane, s: target}}
}

// Left returns the same-offset waypoint on the left neighbor lane, or nil when
// no lane exists there.
func (w *Waypoint) Left() *Waypoint {
	return w.neighbor(w.lane.LeftID)
}

// Right returns the same-offset waypoint on the right neighbor lane, or nil
// when no lane exists there.
func (w *Waypoint) Right() *Waypoint {
	return w.neighbor(w.lane.RightID)
}

func (w *Waypoint) neighbor(id string) *Waypoint {
	lane := w.m.lane(id)
	if lane == nil {
		return nil
	}
	s := w.s
	if s > lane.Length {
		return nil
	}
	return &Waypoint{m: w.m, lane: lane, s: s}
}
