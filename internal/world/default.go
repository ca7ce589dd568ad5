package world

import "github.com/kerbworks/scenic/internal/geom"

// DefaultMapDefinition is the built-in straight used when no map file is
// configured: one eastbound driving lane with a parking lane on its right and
// a shoulder on its left.
func DefaultMapDefinition() MapDefinition {
	return MapDefinition{
		Name: "kerbside-straight",
		Lanes: []Lane{
			{
				ID:     "shoulder-1",
				Type:   LaneShoulder,
				Width:  2.0,
				Origin: geom.Transform{Location: geom.Vector{X: 0, Y: 3.5}},
				Length: 200,
				// Lane runs east; the driving lane sits on its right.
				RightID: "drive-1",
			},
			{
				ID:      "drive-1",
				Type:    LaneDriving,
				Width:   3.5,
				Origin:  geom.Transform{Location: geom.Vector{X: 0, Y: 0}},
				Length:  200,
				LeftID:  "shoulder-1",
				RightID: "park-1",
			},
			{
				ID:     "park-1",
				Type:   LaneParking,
				Width:  3.0,
				Origin: geom.Transform{Location: geom.Vector{X: 0, Y: -3.25}},
				Length: 200,
				LeftID: "drive-1",
			},
		},
	}
}

// DefaultMap builds the built-in straight. It panics only if the definition
// itself is broken, which the world tests guard against.
func DefaultMap() *Map {
	m, err := NewMap(DefaultMapDefinition())
	if err != nil {
		panic(err)
	}
	return m
}
