package behavior

import (
	"testing"

	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/world"
)

// script is a leaf that returns a canned status sequence.
type script struct {
	leaf
	statuses []Status
	calls    int
}

func newScript(name string, statuses ...Status) *script {
	return &script{leaf: newLeaf(name), statuses: statuses}
}

func (s *script) Tick(float64) Status {
	if s.done() {
		return s.status
	}
	status := s.statuses[len(s.statuses)-1]
	if s.calls < len(s.statuses) {
		status = s.statuses[s.calls]
	}
	s.calls++
	if status.Terminal() {
		return s.settle(status)
	}
	s.status = status
	return status
}

func TestSequenceResumesAtRunningChild(t *testing.T) {
	first := newScript("first", StatusSuccess)
	second := newScript("second", StatusRunning, StatusRunning, StatusSuccess)
	seq := NewSequence("seq", first, second)

	if status := seq.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running, got %s", status)
	}
	if first.calls != 1 {
		t.Fatalf("first child should have been ticked once, got %d", first.calls)
	}
	seq.Tick(0.05)
	if status := seq.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}
	if first.calls != 1 {
		t.Fatalf("sequence must not re-tick completed children, got %d calls", first.calls)
	}
}

func TestSequenceFailsFast(t *testing.T) {
	seq := NewSequence("seq",
		newScript("ok", StatusSuccess),
		newScript("bad", StatusFailure),
		newScript("never", StatusSuccess),
	)
	if status := seq.Tick(0.05); status != StatusFailure {
		t.Fatalf("expected failure, got %s", status)
	}
	// Terminal status must latch.
	if status := seq.Tick(0.05); status != StatusFailure {
		t.Fatalf("expected latched failure, got %s", status)
	}
}

func TestParallelSuccessOnOne(t *testing.T) {
	slow := newScript("slow", StatusRunning, StatusRunning, StatusRunning)
	fast := newScript("fast", StatusRunning, StatusSuccess)
	par := NewParallel("par", SuccessOnOne, slow, fast)

	if status := par.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running, got %s", status)
	}
	if status := par.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success once one child finished, got %s", status)
	}
}

func TestParallelSuccessOnAllAndFailure(t *testing.T) {
	par := NewParallel("par", SuccessOnAll,
		newScript("a", StatusSuccess),
		newScript("b", StatusRunning, StatusSuccess),
	)
	if status := par.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running, got %s", status)
	}
	if status := par.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}

	failing := NewParallel("par", SuccessOnAll,
		newScript("a", StatusRunning, StatusRunning),
		newScript("b", StatusFailure),
	)
	if status := failing.Tick(0.05); status != StatusFailure {
		t.Fatalf("expected failure, got %s", status)
	}
}

func TestParallelWithoutChildrenSucceeds(t *testing.T) {
	for _, policy := range []ParallelPolicy{SuccessOnOne, SuccessOnAll} {
		par := NewParallel("empty", policy)
		if status := par.Tick(0.05); status != StatusSuccess {
			t.Fatalf("policy %d: expected empty parallel to succeed, got %s", policy, status)
		}
	}
}

func testActor(t *testing.T) (*world.Provider, *world.Actor) {
	t.Helper()
	provider, err := world.NewProvider(world.DefaultMap(), nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	actor, err := provider.RequestNewActor("vehicle.lumen.sedan", geom.Transform{}, "scenario", nil)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	return provider, actor
}

func TestTransformSetterTeleportsAndSucceeds(t *testing.T) {
	_, actor := testActor(t)
	target := geom.Transform{
		Location: geom.Vector{X: 12, Y: -3.25, Z: 0.05},
		Rotation: geom.Rotation{Yaw: 90},
	}
	set := NewTransformSetter("teleport", actor, target)
	if status := set.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected immediate success, got %s", status)
	}
	if got := actor.Transform(); got != target {
		t.Fatalf("actor not moved, got %+v", got)
	}
	// Terminal status must latch.
	if status := set.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected latched success, got %s", status)
	}
}

func TestIdleNeverFinishes(t *testing.T) {
	idle := NewIdle("idle")
	for i := 0; i < 50; i++ {
		if status := idle.Tick(0.05); status != StatusRunning {
			t.Fatalf("tick %d: expected running, got %s", i, status)
		}
	}
	if idle.Status() != StatusRunning {
		t.Fatalf("expected running status, got %s", idle.Status())
	}
}

func TestStandStillResetsHeldTimerOnMotion(t *testing.T) {
	provider, actor := testActor(t)
	cond := NewStandStill("stop", actor, 0.5)

	// Stopped for 0.25s of the required 0.5s.
	for i := 0; i < 5; i++ {
		if status := cond.Tick(0.05); status != StatusRunning {
			t.Fatalf("tick %d: expected running, got %s", i, status)
		}
	}

	// The actor moves, which must restart the held timer.
	actor.SetTargetSpeed(10)
	provider.Tick(0.05)
	if status := cond.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running while moving, got %s", status)
	}

	actor.SetTargetSpeed(0)
	provider.Tick(0.05)
	// Nine stopped ticks total 0.45s; without the reset the earlier 0.25s
	// would already have pushed the condition over its duration.
	for i := 0; i < 9; i++ {
		if status := cond.Tick(0.05); status != StatusRunning {
			t.Fatalf("stopped tick %d: expected running, got %s", i, status)
		}
	}
	if status := cond.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success after full standstill, got %s", status)
	}
}

func TestInTriggerDistanceBoundary(t *testing.T) {
	_, actor := testActor(t)
	target := geom.Vector{X: 3, Y: 4}

	// The actor sits exactly radius metres from the target.
	exact := NewInTriggerDistance("exact", actor, target, 5)
	if status := exact.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success at exactly radius, got %s", status)
	}

	outside := NewInTriggerDistance("outside", actor, target, 4.9)
	if status := outside.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running outside radius, got %s", status)
	}
	actor.SetLocation(geom.Vector{X: 2, Y: 4})
	if status := outside.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success after moving inside, got %s", status)
	}
}

func TestDriveDistanceUsesOdometerDelta(t *testing.T) {
	provider, err := world.NewProvider(world.DefaultMap(), nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	actor, err := provider.RequestNewActor("vehicle.lumen.sedan", geom.Transform{}, "scenario", nil)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	cond := NewDriveDistance("drive", actor, 5)

	actor.SetTargetSpeed(10)
	if status := cond.Tick(0.05); status != StatusRunning {
		t.Fatalf("expected running before any travel, got %s", status)
	}
	for i := 0; i < 200 && cond.Tick(0.05) != StatusSuccess; i++ {
		provider.Tick(0.05)
	}
	if status := cond.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success after driving, got %s", status)
	}
}

type switchRecorder struct {
	active []bool
}

func (s *switchRecorder) SetActive(v bool) {
	s.active = append(s.active, v)
}

func TestCriterionSwitch(t *testing.T) {
	rec := &switchRecorder{}
	off := NewCriterionSwitch("off", rec, false)
	on := NewCriterionSwitch("on", rec, true)
	if status := off.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}
	if status := on.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}
	if len(rec.active) != 2 || rec.active[0] != false || rec.active[1] != true {
		t.Fatalf("unexpected switch sequence: %v", rec.active)
	}
}

func TestTimeOutCountsSimulationTime(t *testing.T) {
	timeout := NewTimeOut("timeout", 1.0)
	for i := 0; i < 19; i++ {
		if status := timeout.Tick(0.05); status != StatusRunning {
			t.Fatalf("tick %d: expected running, got %s", i, status)
		}
	}
	if status := timeout.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success after budget, got %s", status)
	}
}

func TestActorDestroyIsIdempotent(t *testing.T) {
	provider, err := world.NewProvider(world.DefaultMap(), nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	actor, err := provider.RequestNewActor("vehicle.*", geom.Transform{}, "scenario", nil)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	destroy := NewActorDestroy("destroy", provider, actor)
	if status := destroy.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}
	destroy.Reset()
	if status := destroy.Tick(0.05); status != StatusSuccess {
		t.Fatalf("expected success on already-removed actor, got %s", status)
	}
}
