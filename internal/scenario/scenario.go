package scenario

import (
	"fmt"

	"github.com/kerbworks/scenic/internal/behavior"
	"github.com/kerbworks/scenic/internal/criteria"
	"github.com/kerbworks/scenic/internal/world"
)

// defaultTimeout applies when neither the scenario nor its config set one.
const defaultTimeout = 180.0 // seconds

// Info describes a scenario type's identity.
type Info struct {
	ID          string
	Name        string
	Description string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("scenario: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("scenario: name is required for %s", i.ID)
	}
	return nil
}

// Scenario is implemented by every runnable scenario.
type Scenario interface {
	Info() Info
	// Root returns the behavior tree the runner ticks.
	Root() behavior.Node
	// Criteria returns the pass/fail checks ticked alongside the tree.
	Criteria() []criteria.Criterion
	// OtherActors lists the non-ego actors the scenario spawned.
	OtherActors() []*world.Actor
	// Timeout returns the scenario's simulation-time budget in seconds.
	Timeout() float64
}

// Basic provides common plumbing for scenarios (identity, actors, tree,
// criteria). Concrete scenarios embed it and fill it during construction.
type Basic struct {
	info        Info
	root        behavior.Node
	criteria    []criteria.Criterion
	otherActors []*world.Actor
	timeout     float64
}

// NewBasic seeds the helper with scenario info and timeout from config.
func NewBasic(info Info, cfg Config) Basic {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return Basic{info: info, timeout: timeout}
}

// SetRoot installs the behavior tree root.
func (b *Basic) SetRoot(root behavior.Node) {
	b.root = root
}

// SetCriteria declares the scenario's pass/fail checks.
func (b *Basic) SetCriteria(checks ...criteria.Criterion) {
	b.criteria = append([]criteria.Criterion{}, checks...)
}

// AddOtherActor records a spawned non-ego actor.
func (b *Basic) AddOtherActor(actor *world.Actor) {
	b.otherActors = append(b.otherActors, actor)
}

// Info implements Scenario.
func (b *Basic) Info() Info {
	return b.info
}

// Root implements Scenario.
func (b *Basic) Root() behavior.Node {
	return b.root
}

// Criteria implements Scenario.
func (b *Basic) Criteria() []criteria.Criterion {
	return append([]criteria.Criterion{}, b.criteria...)
}

// OtherActors implements Scenario.
func (b *Basic) OtherActors() []*world.Actor {
	return append([]*world.Actor{}, b.otherActors...)
}

// Timeout implements Scenario.
func (b *Basic) Timeout() float64 {
	return b.timeout
}
