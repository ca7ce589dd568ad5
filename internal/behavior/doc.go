// Package behavior implements the behavior tree scenarios are composed from:
// sequence and parallel composites, atomic world-mutating behaviors, and
// trigger conditions. The runner ticks the tree root once per simulation step
// until it reports success or failure.
package behavior
