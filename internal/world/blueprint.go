package world

import (
	"path"
	"sort"

	"github.com/kerbworks/scenic/internal/geom"
)

// Blueprint describes a spawnable vehicle model.
type Blueprint struct {
	// ID uses dotted vehicle identifiers, e.g. "vehicle.lumen.hatchback",
	// so spawn requests can filter with wildcard patterns like "vehicle.*".
	ID         string
	Attributes map[string]string
	// Extent holds the bounding-box half-sizes of the model.
	Extent geom.Vector
}

// Attribute returns the named attribute or "".
func (b Blueprint) Attribute(key string) string {
	return b.Attributes[key]
}

// Library is a fixed catalog of blueprints.
type Library struct {
	blueprints []Blueprint
}

// NewLibrary builds a library from the given blueprints.
func NewLibrary(blueprints ...Blueprint) *Library {
	out := make([]Blueprint, len(blueprints))
	copy(out, blueprints)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &Library{blueprints: out}
}

// DefaultLibrary returns the built-in vehicle catalog.
func DefaultLibrary() *Library {
	return NewLibrary(
		Blueprint{
			ID:         "vehicle.lumen.hatchback",
			Attributes: map[string]string{"base_type": "car"},
			Extent:     geom.Vector{X: 1.85, Y: 0.82, Z: 0.72},
		},
		Blueprint{
			ID:         "vehicle.lumen.sedan",
			Attributes: map[string]string{"base_type": "car"},
			Extent:     geom.Vector{X: 2.35, Y: 0.95, Z: 0.75},
		},
		Blueprint{
			ID:         "vehicle.norden.wagon",
			Attributes: map[string]string{"base_type": "car"},
			Extent:     geom.Vector{X: 2.45, Y: 0.97, Z: 0.80},
		},
		Blueprint{
			ID:         "vehicle.norden.boxtruck",
			Attributes: map[string]string{"base_type": "truck"},
			Extent:     geom.Vector{X: 3.60, Y: 1.25, Z: 1.60},
		},
	)
}

// Filter returns blueprints whose ID matches the wildcard pattern and whose
// attributes contain every entry of attrs. Results keep the library's sorted
// order so spawns stay deterministic.
func (l *Library) Filter(pattern string, attrs map[string]string) []Blueprint {
	var out []Blueprint
	for _, bp := range l.blueprints {
		if pattern != "" {
			ok, err := path.Match(pattern, bp.ID)
			if err != nil || !ok {
				continue
			}
		}
		if !matchesAttrs(bp, attrs) {
			continue
		}
		out = append(out, bp)
	}
	return out
}

func matchesAttrs(bp Blueprint, attrs map[string]string) bool {
	for key, want := range attrs {
		if bp.Attribute(key) != want {
			return false
		}
	}
	return true
}
