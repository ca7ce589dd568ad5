package behavior

import (
	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// Switchable is anything that can be suspended and resumed mid-run. The
// criteria package implements it for lane-keeping style checks.
type Switchable interface {
	SetActive(bool)
}

// TransformSetter teleports an actor to a fixed transform and immediately
// succeeds.
type TransformSetter struct {
	leaf
	actor     *world.Actor
	transform geom.Transform
}

// NewTransformSetter builds a teleport behavior.
func NewTransformSetter(name string, actor *world.Actor, tf geom.Transform) *TransformSetter {
	return &TransformSetter{leaf: newLeaf(name), actor: actor, transform: tf}
}

// Tick implements Node.
func (b *TransformSetter) Tick(float64) Status {
	if b.done() {
		return b.status
	}
	if b.actor == nil {
		return b.settle(StatusFailure)
	}
	b.actor.SetTransform(b.transform)
	return b.settle(StatusSuccess)
}

// ActorDestroy removes an actor from the world. Destroying an actor that is
// already gone counts as success; scenarios run their teardown unconditionally.
type ActorDestroy struct {
	leaf
	provider *world.Provider
	actor    *world.Actor
}

// NewActorDestroy builds a teardown behavior.
func NewActorDestroy(name string, provider *world.Provider, actor *world.Actor) *ActorDestroy {
	return &ActorDestroy{leaf: newLeaf(name), provider: provider, actor: actor}
}

// Tick implements Node.
func (b *ActorDestroy) Tick(float64) Status {
	if b.done() {
		return b.status
	}
	if b.provider == nil || b.actor == nil {
		return b.settle(StatusSuccess)
	}
	if _, ok := b.provider.Actor(b.actor.ID()); !ok {
		return b.settle(StatusSuccess)
	}
	if err := b.provider.Remove(b.actor.ID()); err != nil {
		return b.settle(StatusFailure)
	}
	return b.settle(StatusSuccess)
}

// CriterionSwitch flips a switchable criterion on or off and immediately
// succeeds. Scenarios use it to suspend checks that do not apply during a
// phase, like lane keeping while pulling out of a parking spot.
type CriterionSwitch struct {
	leaf
	target Switchable
	active bool
}

// NewCriterionSwitch builds a switch behavior.
func NewCriterionSwitch(name string, target Switchable, active bool) *CriterionSwitch {
	return &CriterionSwitch{leaf: newLeaf(name), target: target, active: active}
}

// Tick implements Node.
func (b *CriterionSwitch) Tick(float64) Status {
	if b.done() {
		return b.status
	}
	if b.target != nil {
		b.target.SetActive(b.active)
	}
	return b.settle(StatusSuccess)
}

// Idle never finishes. It keeps a parallel alive until a sibling condition
// fires.
type Idle struct {
	leaf
}

// NewIdle builds an idle behavior.
func NewIdle(name string) *Idle {
	return &Idle{leaf: newLeaf(name)}
}

// Tick implements Node.
func (b *Idle) Tick(float64) Status {
	b.status = StatusRunning
	return b.status
}
