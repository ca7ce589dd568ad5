package world

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kerbworks/scenic/internal/geom"
)

// LaneType classifies what a lane is for.
type LaneType string

const (
	LaneDriving  LaneType = "driving"
	LaneParking  LaneType = "parking"
	LaneShoulder LaneType = "shoulder"
)

func (t LaneType) validate() error {
	switch t {
	case LaneDriving, LaneParking, LaneShoulder:
		return nil
	default:
		return fmt.Errorf("world: unknown lane type %q", string(t))
	}
}

// Lane is a straight centerline segment. Origin points along the lane; arc
// length runs from 0 at the origin to Length at the far end. LeftID/RightID
// name neighbor lanes relative to the lane's own heading.
type Lane struct {
	ID      string         `yaml:"id"`
	Type    LaneType       `yaml:"type"`
	Width   float64        `yaml:"width"`
	Origin  geom.Transform `yaml:"origin"`
	Length  float64        `yaml:"length"`
	LeftID  string         `yaml:"left,omitempty"`
	RightID string         `yaml:"right,omitempty"`
}

func (l Lane) validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("world: lane id is required")
	}
	if err := l.Type.validate(); err != nil {
		return fmt.Errorf("world: lane %s: %w", l.ID, err)
	}
	if l.Width <= 0 {
		return fmt.Errorf("world: lane %s: width must be > 0", l.ID)
	}
	if l.Length <= 0 {
		return fmt.Errorf("world: lane %s: length must be > 0", l.ID)
	}
	return nil
}

// Map is an immutable collection of lanes indexed by ID.
type Map struct {
	name  string
	lanes map[string]*Lane
}

// MapDefinition models a map file on disk.
type MapDefinition struct {
	Name  string `yaml:"name"`
	Lanes []Lane `yaml:"lanes"`
}

// NewMap validates a definition and builds the lane index.
func NewMap(def MapDefinition) (*Map, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("world: map name is required")
	}
	if len(def.Lanes) == 0 {
		return nil, fmt.Errorf("world: map %s has no lanes", def.Name)
	}
	lanes := make(map[string]*Lane, len(def.Lanes))
	for i := range def.Lanes {
		lane := def.Lanes[i]
		if err := lane.validate(); err != nil {
			return nil, err
		}
		if _, exists := lanes[lane.ID]; exists {
			return nil, fmt.Errorf("world: duplicate lane id %s", lane.ID)
		}
		lanes[lane.ID] = &lane
	}
	for _, lane := range lanes {
		for _, neighbor := range []string{lane.LeftID, lane.RightID} {
			if neighbor == "" {
				continue
			}
			if _, ok := lanes[neighbor]; !ok {
				return nil, fmt.Errorf("world: lane %s references unknown neighbor %s", lane.ID, neighbor)
			}
		}
	}
	return &Map{name: def.Name, lanes: lanes}, nil
}

// LoadMapFile reads and validates a YAML map definition.
func LoadMapFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: read %s: %w", path, err)
	}
	var def MapDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("world: parse %s: %w", path, err)
	}
	return NewMap(def)
}

// Name returns the map identifier.
func (m *Map) Name() string {
	return m.name
}

// LaneIDs returns the sorted lane identifiers.
func (m *Map) LaneIDs() []string {
	ids := make([]string, 0, len(m.lanes))
	for id := range m.lanes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Map) lane(id string) *Lane {
	if id == "" {
		return nil
	}
	return m.lanes[id]
}

// WaypointOnLane returns the waypoint at arc length s on the given lane.
func (m *Map) WaypointOnLane(laneID string, s float64) (*Waypoint, error) {
	lane := m.lane(laneID)
	if lane == nil {
		return nil, fmt.Errorf("world: unknown lane %s", laneID)
	}
	if s < 0 || s > lane.Length {
		return nil, fmt.Errorf("world: offset %.2f outside lane %s (length %.2f)", s, laneID, lane.Length)
	}
	return &Waypoint{m: m, lane: lane, s: s}, nil
}

// Waypoint returns the closest driving-lane waypoint for a world location.
// This is the trigger-point to reference-waypoint lookup scenarios start from.
func (m *Map) Waypoint(loc geom.Vector) (*Waypoint, error) {
	return m.closest(loc, func(l *Lane) bool { return l.Type == LaneDriving })
}

// WaypointOnAnyLane is like Waypoint but considers every lane type. Criteria
// use it to classify where an actor currently is.
func (m *Map) WaypointOnAnyLane(loc geom.Vector) (*Waypoint, error) {
	return m.closest(loc, func(*Lane) bool { return true })
}

func (m *Map) closest(loc geom.Vector, keep func(*Lane) bool) (*Waypoint, error) {
	var best *Waypoint
	bestDist := 0.0
	for _, id := range m.LaneIDs() {
		lane := m.lanes[id]
		if !keep(lane) {
			continue
		}
		s, lateral := lane.project(loc)
		if best == nil || lateral < bestDist {
			best = &Waypoint{m: m, lane: lane, s: s}
			bestDist = lateral
		}
	}
	if best == nil {
		return nil, fmt.Errorf("world: map %s has no matching lane for location", m.name)
	}
	return best, nil
}

// project returns the clamped arc length of loc on the centerline and the
// absolute lateral distance from it.
func (l *Lane) project(loc geom.Vector) (s, lateral float64) {
	rel := loc.Sub(l.Origin.Location)
	s = rel.Dot(l.Origin.Forward())
	if s < 0 {
		s = 0
	}
	if s > l.Length {
		s = l.Length
	}
	onLane := l.Origin.Location.Add(l.Origin.Forward().Scale(s))
	lateral = loc.PlanarDistance(onLane)
	return s, lateral
}
