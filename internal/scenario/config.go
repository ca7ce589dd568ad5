package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kerbworks/scenic/internal/geom"
)

// ParameterValue wraps a scalar scenario parameter. The extra indirection
// mirrors the `{value: ...}` bags scenario configuration files use.
type ParameterValue struct {
	Value string `json:"value" yaml:"value"`
}

// Parameters is the free-form parameter bag scenarios read their tuning from.
type Parameters map[string]ParameterValue

// Float returns the named parameter as a float, or fallback when absent.
// A present but unparseable value is an error.
func (p Parameters) Float(key string, fallback float64) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("scenario: parameter %s: %w", key, err)
	}
	return v, nil
}

// String returns the named parameter, or fallback when absent.
func (p Parameters) String(key, fallback string) string {
	raw, ok := p[key]
	if !ok || strings.TrimSpace(raw.Value) == "" {
		return fallback
	}
	return strings.TrimSpace(raw.Value)
}

// Config carries everything a scenario factory needs besides the world.
type Config struct {
	// Name labels the concrete scenario instance.
	Name string
	// TriggerPoints anchor the scenario on the map. The first point is the
	// reference every built-in scenario positions itself from.
	TriggerPoints []geom.Transform
	// Parameters tunes the scenario.
	Parameters Parameters
	// RouteMode marks runs embedded in a larger route, where route-level
	// criteria own checks the standalone scenario would otherwise add.
	RouteMode bool
	// Timeout in simulation seconds; zero means the scenario default.
	Timeout float64
}

// TriggerPoint returns the first trigger point.
func (c Config) TriggerPoint() (geom.Transform, error) {
	if len(c.TriggerPoints) == 0 {
		return geom.Transform{}, fmt.Errorf("scenario: %s has no trigger point", c.Name)
	}
	return c.TriggerPoints[0], nil
}
