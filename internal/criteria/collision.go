package criteria

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// CollisionTest fails when the ego touches any other actor. Contacts are
// counted per event: staying in contact across ticks is one collision,
// separating and touching again is another.
type CollisionTest struct {
	name      string
	provider  *world.Provider
	ego       *world.Actor
	inContact map[uuid.UUID]bool
	events    int
}

// NewCollisionTest builds a collision criterion for the ego vehicle.
func NewCollisionTest(provider *world.Provider, ego *world.Actor) *CollisionTest {
	return &CollisionTest{
		name:      "collision",
		provider:  provider,
		ego:       ego,
		inContact: map[uuid.UUID]bool{},
	}
}

// Name implements Criterion.
func (c *CollisionTest) Name() string {
	return c.name
}

// Tick implements Criterion.
func (c *CollisionTest) Tick(float64) {
	egoTf := c.ego.Transform()
	egoBox := c.ego.BoundingBox()
	seen := map[uuid.UUID]bool{}
	for _, other := range c.provider.Actors() {
		if other.ID() == c.ego.ID() {
			continue
		}
		touching := geom.Overlaps(egoTf, egoBox, other.Transform(), other.BoundingBox())
		if touching {
			seen[other.ID()] = true
			if !c.inContact[other.ID()] {
				c.events++
			}
		}
	}
	c.inContact = seen
}

// Events returns how many distinct collisions have occurred.
func (c *CollisionTest) Events() int {
	return c.events
}

// Result implements Criterion.
func (c *CollisionTest) Result() Result {
	r := Result{Name: c.name, Passed: c.events == 0}
	if c.events > 0 {
		r.Details = fmt.Sprintf("%d collision(s)", c.events)
	}
	return r
}
