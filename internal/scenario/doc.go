// Package scenario defines the scenario contract, the factory registry the
// runner resolves scenario types through, and the built-in scenarios.
//
// A scenario is declarative: its constructor places actors using waypoint
// queries against the world provider and composes a behavior tree plus
// pass/fail criteria from pre-built nodes. Execution is owned entirely by the
// runner.
package scenario
