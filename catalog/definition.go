package catalog

import (
	"fmt"
	"strings"

	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/scenario"
)

// Definition describes one runnable scenario instance loaded from YAML.
//
// The struct mirrors the on-disk schema under .scenic/catalog/*.yaml and is
// intentionally narrow so the runner can validate catalog entries before
// resolving them against the scenario registry.
type Definition struct {
	ID          string              `json:"id" yaml:"id"`
	Scenario    string              `json:"scenario" yaml:"scenario"`
	Name        string              `json:"name,omitempty" yaml:"name,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Map         string              `json:"map,omitempty" yaml:"map,omitempty"`
	Triggers    []geom.Transform    `json:"trigger_points" yaml:"trigger_points"`
	Parameters  scenario.Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RouteMode   bool                `json:"route_mode,omitempty" yaml:"route_mode,omitempty"`
	Timeout     float64             `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	EgoFilter   string              `json:"ego_filter,omitempty" yaml:"ego_filter,omitempty"`
}

// Normalized returns a trimmed, copy-on-write variant of the definition.
func (def Definition) Normalized() Definition {
	clone := Definition{
		ID:          strings.TrimSpace(def.ID),
		Scenario:    strings.TrimSpace(def.Scenario),
		Name:        strings.TrimSpace(def.Name),
		Description: strings.TrimSpace(def.Description),
		Map:         strings.TrimSpace(def.Map),
		RouteMode:   def.RouteMode,
		Timeout:     def.Timeout,
		EgoFilter:   strings.TrimSpace(def.EgoFilter),
	}
	if len(def.Triggers) > 0 {
		clone.Triggers = make([]geom.Transform, len(def.Triggers))
		copy(clone.Triggers, def.Triggers)
	}
	if len(def.Parameters) > 0 {
		clone.Parameters = make(scenario.Parameters, len(def.Parameters))
		for key, value := range def.Parameters {
			trimmed := strings.TrimSpace(key)
			if trimmed == "" {
				continue
			}
			clone.Parameters[trimmed] = value
		}
	}
	return clone
}

// Validate ensures the definition is well-formed.
func (def Definition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("catalog: id is required")
	}
	if normalized.Scenario == "" {
		return fmt.Errorf("catalog %s: scenario is required", normalized.ID)
	}
	if len(normalized.Triggers) == 0 {
		return fmt.Errorf("catalog %s: at least one trigger point is required", normalized.ID)
	}
	if normalized.Timeout < 0 {
		return fmt.Errorf("catalog %s: timeout must not be negative", normalized.ID)
	}
	return nil
}

// Config converts the definition into the scenario configuration the factory
// consumes. The instance name falls back to the definition ID.
func (def Definition) Config() scenario.Config {
	normalized := def.Normalized()
	name := normalized.Name
	if name == "" {
		name = normalized.ID
	}
	return scenario.Config{
		Name:          name,
		TriggerPoints: normalized.Triggers,
		Parameters:    normalized.Parameters,
		RouteMode:     normalized.RouteMode,
		Timeout:       normalized.Timeout,
	}
}
