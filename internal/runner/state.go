package runner

import (
	"time"

	"github.com/kerbworks/scenic/internal/behavior"
	"github.com/kerbworks/scenic/internal/criteria"
)

// Status enumerates coarse run phases.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// Terminal reports whether the run has ended.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusTimeout, StatusError:
		return true
	default:
		return false
	}
}

// NodeStatus is one behavior tree node's snapshot, depth giving its position
// in the tree for rendering.
type NodeStatus struct {
	Name   string          `json:"name"`
	Depth  int             `json:"depth"`
	Status behavior.Status `json:"status"`
}

// State captures the persisted snapshot of a scenario run.
type State struct {
	RunID        string            `json:"run_id"`
	ScenarioID   string            `json:"scenario_id"`
	ScenarioName string            `json:"scenario_name"`
	MapName      string            `json:"map_name"`
	Status       Status            `json:"status"`
	// StatusReason provides a human readable explanation for terminal states.
	StatusReason string            `json:"status_reason,omitempty"`
	Ticks        int               `json:"ticks"`
	SimTime      float64           `json:"sim_time"`
	Nodes        []NodeStatus      `json:"nodes"`
	Criteria     []criteria.Result `json:"criteria,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Result is the final outcome of a run.
type Result struct {
	RunID    string
	Status   Status
	Reason   string
	Ticks    int
	SimTime  float64
	Criteria []criteria.Result
}

// Passed reports whether the run ended successfully.
func (r Result) Passed() bool {
	return r.Status == StatusPassed
}

// statusReporter is satisfied by every node in the behavior package.
type statusReporter interface {
	Status() behavior.Status
}

// parent is satisfied by the composites.
type parent interface {
	Children() []behavior.Node
}

// flattenTree walks the tree depth-first and snapshots every node.
func flattenTree(node behavior.Node, depth int) []NodeStatus {
	if node == nil {
		return nil
	}
	status := behavior.StatusFresh
	if reporter, ok := node.(statusReporter); ok {
		status = reporter.Status()
	}
	out := []NodeStatus{{Name: node.Name(), Depth: depth, Status: status}}
	if p, ok := node.(parent); ok {
		for _, child := range p.Children() {
			out = append(out, flattenTree(child, depth+1)...)
		}
	}
	return out
}
