package runner

import (
	"math"

	"github.com/kerbworks/scenic/internal/world"
)

// Agent drives the ego vehicle. The runner calls it once per tick before the
// world advances; real integrations plug a planner in here, tests and the
// built-in scenarios use the lane-follow agent below.
type Agent interface {
	Drive(ego *world.Actor, m *world.Map, dt float64)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ego *world.Actor, m *world.Map, dt float64)

// Drive implements Agent.
func (f AgentFunc) Drive(ego *world.Actor, m *world.Map, dt float64) {
	f(ego, m, dt)
}

// LaneFollow is a deliberately simple driver: it aims at a lookahead point on
// the nearest driving lane and cruises. Starting on a parking lane it
// naturally merges back onto the road, which is exactly the maneuver the
// parking-exit scenario scores.
type LaneFollow struct {
	// CruiseSpeed in m/s; zero means the default.
	CruiseSpeed float64
	// Lookahead in metres; zero means the default.
	Lookahead float64
}

const (
	defaultCruiseSpeed = 6.0
	defaultLookahead   = 8.0
)

// Drive implements Agent.
func (a LaneFollow) Drive(ego *world.Actor, m *world.Map, _ float64) {
	cruise := a.CruiseSpeed
	if cruise <= 0 {
		cruise = defaultCruiseSpeed
	}
	lookahead := a.Lookahead
	if lookahead <= 0 {
		lookahead = defaultLookahead
	}
	wp, err := m.Waypoint(ego.Location())
	if err != nil {
		ego.SetTargetSpeed(0)
		return
	}
	target := wp.Transform()
	if ahead := wp.Next(lookahead); len(ahead) > 0 {
		target = ahead[0].Transform()
	} else {
		// Near the lane end: aim straight along the lane and coast out.
		target = target.Shifted(target.Forward().Scale(lookahead))
	}
	to := target.Location.Sub(ego.Location())
	if to.PlanarLength() > 1e-6 {
		ego.SetHeading(math.Atan2(to.Y, to.X) * 180 / math.Pi)
	}
	ego.SetTargetSpeed(cruise)
}
