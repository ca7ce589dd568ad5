// Package geom provides the vector, transform, and bounding-box primitives the
// world model and criteria are built on.
//
// Conventions: distances in metres, speeds in m/s, yaw in degrees measured
// counter-clockwise from the +X axis. The simulation plane is X/Y with Z up;
// pitch and roll are not modelled.
package geom
