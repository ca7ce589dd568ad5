package behavior

import (
	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// standstillEpsilon is the speed below which a vehicle counts as stopped.
const standstillEpsilon = 0.1 // m/s

// DriveDistance succeeds once the actor has driven the requested distance
// since the condition was first ticked. Teleports do not count because the
// odometer ignores them.
type DriveDistance struct {
	leaf
	actor    *world.Actor
	distance float64
	start    float64
	started  bool
}

// NewDriveDistance builds a driven-distance trigger.
func NewDriveDistance(name string, actor *world.Actor, distance float64) *DriveDistance {
	return &DriveDistance{leaf: newLeaf(name), actor: actor, distance: distance}
}

// Tick implements Node.
func (c *DriveDistance) Tick(float64) Status {
	if c.done() {
		return c.status
	}
	if c.actor == nil {
		return c.settle(StatusFailure)
	}
	if !c.started {
		c.start = c.actor.Odometer()
		c.started = true
	}
	if c.actor.Odometer()-c.start >= c.distance {
		return c.settle(StatusSuccess)
	}
	c.status = StatusRunning
	return c.status
}

// Reset implements Node.
func (c *DriveDistance) Reset() {
	c.leaf.Reset()
	c.started = false
	c.start = 0
}

// StandStill succeeds once the actor has been stopped for the given duration.
type StandStill struct {
	leaf
	actor    *world.Actor
	duration float64
	held     float64
}

// NewStandStill builds a standstill trigger.
func NewStandStill(name string, actor *world.Actor, duration float64) *StandStill {
	return &StandStill{leaf: newLeaf(name), actor: actor, duration: duration}
}

// Tick implements Node.
func (c *StandStill) Tick(dt float64) Status {
	if c.done() {
		return c.status
	}
	if c.actor == nil {
		return c.settle(StatusFailure)
	}
	if c.actor.Speed() > standstillEpsilon {
		c.held = 0
	} else {
		c.held += dt
	}
	if c.held >= c.duration {
		return c.settle(StatusSuccess)
	}
	c.status = StatusRunning
	return c.status
}

// Reset implements Node.
func (c *StandStill) Reset() {
	c.leaf.Reset()
	c.held = 0
}

// InTriggerDistance succeeds once the actor is within radius metres of a
// world location.
type InTriggerDistance struct {
	leaf
	actor  *world.Actor
	target geom.Vector
	radius float64
}

// NewInTriggerDistance builds a proximity trigger.
func NewInTriggerDistance(name string, actor *world.Actor, target geom.Vector, radius float64) *InTriggerDistance {
	return &InTriggerDistance{leaf: newLeaf(name), actor: actor, target: target, radius: radius}
}

// Tick implements Node.
func (c *InTriggerDistance) Tick(float64) Status {
	if c.done() {
		return c.status
	}
	if c.actor == nil {
		return c.settle(StatusFailure)
	}
	if c.actor.Location().PlanarDistance(c.target) <= c.radius {
		return c.settle(StatusSuccess)
	}
	c.status = StatusRunning
	return c.status
}

// TimeOut succeeds after the given amount of simulation time has been ticked
// through it.
type TimeOut struct {
	leaf
	budget  float64
	elapsed float64
}

// NewTimeOut builds a simulation-time trigger.
func NewTimeOut(name string, budget float64) *TimeOut {
	return &TimeOut{leaf: newLeaf(name), budget: budget}
}

// Tick implements Node.
func (c *TimeOut) Tick(dt float64) Status {
	if c.done() {
		return c.status
	}
	c.elapsed += dt
	if c.elapsed >= c.budget {
		return c.settle(StatusSuccess)
	}
	c.status = StatusRunning
	return c.status
}

// Reset implements Node.
func (c *TimeOut) Reset() {
	c.leaf.Reset()
	c.elapsed = 0
}
