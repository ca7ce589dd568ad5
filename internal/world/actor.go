package world

import (
	"math"

	"github.com/google/uuid"

	"github.com/kerbworks/scenic/internal/geom"
)

// Acceleration limits shared by every vehicle. Scenarios that need finer
// physics plug their own agent in; the built-in model only has to move actors
// convincingly between waypoints.
const (
	accelRate = 3.0 // m/s^2
	brakeRate = 6.0 // m/s^2
)

// Actor is a spawned vehicle. Actors are mutated by the runner's single tick
// goroutine; snapshots for other consumers go through runner state, not
// through the actor itself.
type Actor struct {
	id          uuid.UUID
	role        string
	blueprint   Blueprint
	transform   geom.Transform
	speed       float64
	targetSpeed float64
	odometer    float64
}

func newActor(bp Blueprint, tf geom.Transform, role string) *Actor {
	return &Actor{
		id:        uuid.New(),
		role:      role,
		blueprint: bp,
		transform: tf,
	}
}

// ID returns the actor's unique handle.
func (a *Actor) ID() uuid.UUID {
	return a.id
}

// RoleName returns the role the actor was spawned with ("hero", "scenario", ...).
func (a *Actor) RoleName() string {
	return a.role
}

// Blueprint returns the model the actor was spawned from.
func (a *Actor) Blueprint() Blueprint {
	return a.blueprint
}

// BoundingBox returns the actor's collision volume.
func (a *Actor) BoundingBox() geom.BoundingBox {
	return geom.BoundingBox{Extent: a.blueprint.Extent}
}

// Transform returns the actor's current world transform.
func (a *Actor) Transform() geom.Transform {
	return a.transform
}

// Location returns the actor's current world location.
func (a *Actor) Location() geom.Vector {
	return a.transform.Location
}

// SetLocation teleports the actor without changing its heading.
func (a *Actor) SetLocation(loc geom.Vector) {
	a.transform.Location = loc
}

// SetTransform teleports the actor to a full transform.
func (a *Actor) SetTransform(tf geom.Transform) {
	a.transform = tf
}

// SetHeading rotates the actor in place.
func (a *Actor) SetHeading(yaw float64) {
	a.transform.Rotation.Yaw = yaw
}

// Speed returns the current forward speed in m/s.
func (a *Actor) Speed() float64 {
	return a.speed
}

// TargetSpeed returns the speed the actor is converging to.
func (a *Actor) TargetSpeed() float64 {
	return a.targetSpeed
}

// SetTargetSpeed sets the speed the actor accelerates or brakes toward on
// subsequent ticks.
func (a *Actor) SetTargetSpeed(v float64) {
	if v < 0 {
		v = 0
	}
	a.targetSpeed = v
}

// Odometer returns the accumulated planar distance the actor has driven.
// Teleports do not count.
func (a *Actor) Odometer() float64 {
	return a.odometer
}

// update advances the actor along its heading for dt seconds.
func (a *Actor) update(dt float64) {
	if dt <= 0 {
		return
	}
	switch {
	case a.speed < a.targetSpeed:
		a.speed = math.Min(a.targetSpeed, a.speed+accelRate*dt)
	case a.speed > a.targetSpeed:
		a.speed = math.Max(a.targetSpeed, a.speed-brakeRate*dt)
	}
	if a.speed == 0 {
		return
	}
	step := a.transform.Forward().Scale(a.speed * dt)
	a.transform.Location = a.transform.Location.Add(step)
	a.odometer += step.PlanarLength()
}
