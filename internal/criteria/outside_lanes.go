package criteria

import (
	"fmt"

	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// defaultOutsideLanesThreshold is the tolerated share of driven distance spent
// off the driving lanes before the criterion fails.
const defaultOutsideLanesThreshold = 0.3

// OutsideRouteLanesTest measures how much of the ego's driven distance happens
// outside driving lanes. It is switchable: scenarios that legitimately leave
// the lane, like pulling out of a parking spot, suspend it for that phase.
type OutsideRouteLanesTest struct {
	name      string
	m         *world.Map
	ego       *world.Actor
	threshold float64

	active  bool
	tracked bool
	lastLoc geom.Vector
	total   float64
	outside float64
}

// NewOutsideRouteLanesTest builds the lane-keeping criterion, initially active.
func NewOutsideRouteLanesTest(m *world.Map, ego *world.Actor) *OutsideRouteLanesTest {
	return &OutsideRouteLanesTest{
		name:      "outside-route-lanes",
		m:         m,
		ego:       ego,
		threshold: defaultOutsideLanesThreshold,
		active:    true,
	}
}

// Name implements Criterion.
func (c *OutsideRouteLanesTest) Name() string {
	return c.name
}

// SetActive implements Switchable. The location anchor resets on every flip so
// distance covered while suspended never counts.
func (c *OutsideRouteLanesTest) SetActive(active bool) {
	c.active = active
	c.tracked = false
}

// Active reports whether the criterion is currently measuring.
func (c *OutsideRouteLanesTest) Active() bool {
	return c.active
}

// Tick implements Criterion.
func (c *OutsideRouteLanesTest) Tick(float64) {
	loc := c.ego.Location()
	if !c.active {
		return
	}
	if !c.tracked {
		c.lastLoc = loc
		c.tracked = true
		return
	}
	delta := loc.PlanarDistance(c.lastLoc)
	c.lastLoc = loc
	if delta == 0 {
		return
	}
	c.total += delta
	wp, err := c.m.WaypointOnAnyLane(loc)
	if err != nil || wp.LaneType() != world.LaneDriving {
		c.outside += delta
	}
}

// OutsideRatio returns the measured off-lane share of driven distance.
func (c *OutsideRouteLanesTest) OutsideRatio() float64 {
	if c.total == 0 {
		return 0
	}
	return c.outside / c.total
}

// Result implements Criterion.
func (c *OutsideRouteLanesTest) Result() Result {
	ratio := c.OutsideRatio()
	r := Result{Name: c.name, Passed: ratio <= c.threshold}
	if !r.Passed {
		r.Details = fmt.Sprintf("%.0f%% of driven distance outside driving lanes", ratio*100)
	}
	return r
}
