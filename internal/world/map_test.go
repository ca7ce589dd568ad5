package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kerbworks/scenic/internal/geom"
)

func TestWaypointWalksAlongLane(t *testing.T) {
	m := DefaultMap()
	wp, err := m.WaypointOnLane("drive-1", 50)
	require.NoError(t, err)

	next := wp.Next(20)
	require.Len(t, next, 1)
	require.InDelta(t, 70, next[0].S(), 1e-9)
	require.InDelta(t, 70, next[0].Transform().Location.X, 1e-9)

	prev := wp.Previous(5)
	require.Len(t, prev, 1)
	require.InDelta(t, 45, prev[0].S(), 1e-9)

	require.Empty(t, wp.Next(1000), "walking past the lane end yields no waypoint")
	require.Empty(t, wp.Previous(1000), "walking past the lane start yields no waypoint")
}

func TestWaypointNeighbors(t *testing.T) {
	m := DefaultMap()
	wp, err := m.WaypointOnLane("drive-1", 10)
	require.NoError(t, err)

	right := wp.Right()
	require.NotNil(t, right)
	require.Equal(t, "park-1", right.LaneID())
	require.Equal(t, LaneParking, right.LaneType())
	require.InDelta(t, 10, right.S(), 1e-9)
	require.InDelta(t, -3.25, right.Transform().Location.Y, 1e-9)

	// The parking lane has nothing further right.
	require.Nil(t, right.Right())
}

func TestClosestDrivingWaypoint(t *testing.T) {
	m := DefaultMap()
	// A point inside the parking lane still resolves to the driving lane.
	wp, err := m.Waypoint(geom.Vector{X: 30, Y: -3})
	require.NoError(t, err)
	require.Equal(t, "drive-1", wp.LaneID())
	require.InDelta(t, 30, wp.S(), 1e-9)

	any, err := m.WaypointOnAnyLane(geom.Vector{X: 30, Y: -3})
	require.NoError(t, err)
	require.Equal(t, "park-1", any.LaneID())
}

func TestNewMapValidation(t *testing.T) {
	_, err := NewMap(MapDefinition{Name: "empty"})
	require.Error(t, err)

	def := DefaultMapDefinition()
	def.Lanes[1].RightID = "missing"
	_, err = NewMap(def)
	require.ErrorContains(t, err, "unknown neighbor")

	def = DefaultMapDefinition()
	def.Lanes[0].Width = 0
	_, err = NewMap(def)
	require.ErrorContains(t, err, "width")
}

func TestLoadMapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "straight.yaml")
	payload := `name: test-straight
lanes:
  - id: drive-1
    type: driving
    width: 3.5
    origin:
      location: {x: 0, y: 0, z: 0}
      rotation: {yaw: 0}
    length: 100
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	m, err := LoadMapFile(path)
	require.NoError(t, err)
	require.Equal(t, "test-straight", m.Name())
	require.Equal(t, []string{"drive-1"}, m.LaneIDs())
}
