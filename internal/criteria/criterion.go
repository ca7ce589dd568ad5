// Package criteria evaluates pass/fail conditions alongside the behavior
// tree. Criteria are ticked every simulation step and report a verdict at any
// point during the run; the runner folds them into the final result.
package criteria

import "strings"

// Criterion is a pass/fail check ticked by the runner.
type Criterion interface {
	Name() string
	Tick(dt float64)
	Result() Result
}

// Switchable criteria can be suspended while a scenario phase makes them
// meaningless, then resumed.
type Switchable interface {
	Criterion
	SetActive(bool)
}

// Result is a criterion verdict snapshot.
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// Evaluate collects the current verdict of every criterion.
func Evaluate(criteria []Criterion) []Result {
	if len(criteria) == 0 {
		return nil
	}
	out := make([]Result, len(criteria))
	for i, c := range criteria {
		out[i] = c.Result()
	}
	return out
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Failures summarizes failing criteria for log lines and status reasons.
func Failures(results []Result) string {
	var parts []string
	for _, r := range results {
		if r.Passed {
			continue
		}
		if r.Details != "" {
			parts = append(parts, r.Name+": "+r.Details)
		} else {
			parts = append(parts, r.Name)
		}
	}
	return strings.Join(parts, "; ")
}
