// Package world owns simulator state: the lane map, the vehicle blueprint
// library, and the actor registry that scenarios spawn into. It plays the role
// of the data provider every scenario and criterion reads from.
//
// Lanes are straight centerline segments with parallel neighbors, which keeps
// waypoint math exact while still exercising the lane-relative queries
// scenarios need (next/previous along a lane, left/right neighbor lookup,
// closest driving-lane waypoint for a world location).
package world
