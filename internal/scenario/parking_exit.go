package scenario

import (
	"fmt"

	"github.com/kerbworks/scenic/internal/behavior"
	"github.com/kerbworks/scenic/internal/criteria"
	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// ParkingExitID is the registry identifier for the parking-exit scenario.
const ParkingExitID = "parking-exit"

const (
	defaultFrontVehicleDistance  = 20.0 // m
	defaultBehindVehicleDistance = 5.0  // m
	defaultParkingLaneSide       = "right"
	// endDistanceMargin is added to the front vehicle distance to decide when
	// the ego has cleared the parking maneuver.
	endDistanceMargin = 15.0
	// groundClearance lifts repositioned actors slightly so they never start
	// intersecting the road surface.
	groundClearance = 0.05
)

// ParkingExit parks the ego between two blocking vehicles on a parking lane
// and scores whether it can maneuver back onto the driving lane.
//
// The ego is teleported to the kerb side of the parking lane; one blocking
// vehicle is placed ahead of it and one behind. Lane keeping is suspended
// while the ego pulls out, since it necessarily starts outside the driving
// lane, and resumes once the ego has driven clear. The blocking vehicles are
// destroyed at the end of the maneuver.
type ParkingExit struct {
	Basic

	frontVehicleDistance  float64
	behindVehicleDistance float64
	endDistance           float64
	parkingLaneSide       string

	parkingWaypoint *world.Waypoint
}

// NewParkingExit builds the scenario: validates the parking lane, spawns the
// blocking vehicles, repositions the ego, and assembles tree and criteria.
func NewParkingExit(provider *world.Provider, ego *world.Actor, cfg Config) (Scenario, error) {
	if ego == nil {
		return nil, fmt.Errorf("scenario: parking-exit requires an ego vehicle")
	}
	s := &ParkingExit{
		Basic: NewBasic(Info{
			ID:          ParkingExitID,
			Name:        "Parking Exit",
			Description: "ego parked between two vehicles must merge back onto the driving lane",
		}, cfg),
	}

	var err error
	if s.frontVehicleDistance, err = cfg.Parameters.Float("front_vehicle_distance", defaultFrontVehicleDistance); err != nil {
		return nil, err
	}
	if s.behindVehicleDistance, err = cfg.Parameters.Float("behind_vehicle_distance", defaultBehindVehicleDistance); err != nil {
		return nil, err
	}
	s.endDistance = s.frontVehicleDistance + endDistanceMargin
	s.parkingLaneSide = cfg.Parameters.String("parking_lane_side", defaultParkingLaneSide)
	if s.parkingLaneSide != "left" && s.parkingLaneSide != "right" {
		return nil, fmt.Errorf("scenario: parking_lane_side must be left or right, got %q", s.parkingLaneSide)
	}

	trigger, err := cfg.TriggerPoint()
	if err != nil {
		return nil, err
	}
	reference, err := provider.Map().Waypoint(trigger.Location)
	if err != nil {
		return nil, err
	}
	if s.parkingLaneSide == "left" {
		s.parkingWaypoint = reference.Left()
	} else {
		s.parkingWaypoint = reference.Right()
	}
	if s.parkingWaypoint == nil {
		return nil, fmt.Errorf("scenario: couldn't find parking point on the %s side", s.parkingLaneSide)
	}

	if err := s.initializeActors(provider, ego); err != nil {
		return nil, err
	}
	s.buildTree(provider, ego, cfg)
	return s, nil
}

// initializeActors spawns the blocking vehicles around the parking point and
// moves everything to the kerb side of the lane.
func (s *ParkingExit) initializeActors(provider *world.Provider, ego *world.Actor) error {
	frontPoints := s.parkingWaypoint.Next(s.frontVehicleDistance)
	if len(frontPoints) == 0 {
		return fmt.Errorf("scenario: no viable position for the vehicle in front of the parking point")
	}
	actorFront, err := provider.RequestNewActor("vehicle.*", frontPoints[0].Transform(), "scenario", map[string]string{"base_type": "car"})
	if err != nil {
		return fmt.Errorf("scenario: couldn't spawn the vehicle in front of the parking point: %w", err)
	}
	s.AddOtherActor(actorFront)
	actorFront.SetTransform(s.displacedTransform(actorFront, frontPoints[0]))

	behindPoints := s.parkingWaypoint.Previous(s.behindVehicleDistance)
	if len(behindPoints) == 0 {
		return fmt.Errorf("scenario: no viable position for the vehicle behind the parking point")
	}
	actorBehind, err := provider.RequestNewActor("vehicle.*", behindPoints[0].Transform(), "scenario", map[string]string{"base_type": "car"})
	if err != nil {
		return fmt.Errorf("scenario: couldn't spawn the vehicle behind the parking point: %w", err)
	}
	s.AddOtherActor(actorBehind)
	actorBehind.SetTransform(s.displacedTransform(actorBehind, behindPoints[0]))

	ego.SetTransform(s.displacedTransform(ego, s.parkingWaypoint))
	return nil
}

// displacedTransform shifts an actor to the sidemost part of a lane, toward
// the kerb: a quarter of the free lane width past the actor's half width.
func (s *ParkingExit) displacedTransform(actor *world.Actor, wp *world.Waypoint) geom.Transform {
	tf := wp.Transform()
	displacement := (wp.LaneWidth() - actor.BoundingBox().Extent.Y) / 4
	dir := tf.Right()
	if s.parkingLaneSide == "left" {
		dir = dir.Scale(-1)
	}
	offset := dir.Scale(displacement)
	offset.Z += groundClearance
	return tf.Shifted(offset)
}

// buildTree assembles the behavior tree and criteria:
//
//	Sequence
//	 ├── suspend lane keeping
//	 ├── Parallel (success on one)
//	 │    └── Sequence
//	 │         └── DriveDistance(ego, endDistance)
//	 ├── resume lane keeping
//	 └── destroy blocking vehicles
func (s *ParkingExit) buildTree(provider *world.Provider, ego *world.Actor, cfg Config) {
	laneCheck := criteria.NewOutsideRouteLanesTest(provider.Map(), ego)

	seq := behavior.NewSequence("parking-exit")
	seq.Add(behavior.NewCriterionSwitch("suspend-lane-keeping", laneCheck, false))

	endCondition := behavior.NewSequence("end-condition",
		behavior.NewDriveDistance("drive-clear", ego, s.endDistance),
	)
	seq.Add(behavior.NewParallel("drive-away", behavior.SuccessOnOne, endCondition))

	seq.Add(behavior.NewCriterionSwitch("resume-lane-keeping", laneCheck, true))
	for i, actor := range s.OtherActors() {
		seq.Add(behavior.NewActorDestroy(fmt.Sprintf("destroy-blocker-%d", i+1), provider, actor))
	}
	s.SetRoot(seq)

	checks := []criteria.Criterion{laneCheck}
	if !cfg.RouteMode {
		// In route mode the route-level criteria already track collisions.
		checks = append(checks, criteria.NewCollisionTest(provider, ego))
	}
	s.SetCriteria(checks...)
}
