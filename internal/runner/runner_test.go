package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/scenario"
	"github.com/kerbworks/scenic/internal/world"
)

func testRegistry() *scenario.Registry {
	reg := scenario.NewRegistry()
	scenario.RegisterBuiltins(reg)
	return reg
}

func testProvider(t *testing.T) *world.Provider {
	t.Helper()
	provider, err := world.NewProvider(world.DefaultMap(), nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	return provider
}

func parkingExitRequest(provider *world.Provider) Request {
	return Request{
		ScenarioID: scenario.ParkingExitID,
		Provider:   provider,
		EgoFilter:  "vehicle.lumen.sedan",
		Config: scenario.Config{
			Name:          "parking-exit-run",
			TriggerPoints: []geom.Transform{{Location: geom.Vector{X: 30}}},
		},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestRunnerPassesParkingExit(t *testing.T) {
	store := NewRepository(t.TempDir())
	r, err := New(testRegistry(), store, WithClock(fixedClock()))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	result, err := r.Run(context.Background(), parkingExitRequest(testProvider(t)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Passed() {
		t.Fatalf("expected pass, got %s (%s)", result.Status, result.Reason)
	}
	if result.SimTime <= 0 || result.Ticks <= 0 {
		t.Fatalf("expected progress, got %+v", result)
	}
	if len(result.Criteria) != 2 {
		t.Fatalf("expected 2 criteria results, got %d", len(result.Criteria))
	}

	state, err := store.Load()
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.RunID != result.RunID || state.Status != StatusPassed {
		t.Fatalf("persisted state mismatch: %+v", state)
	}
	if len(state.Nodes) == 0 || state.Nodes[0].Name != "parking-exit" {
		t.Fatalf("expected tree snapshot, got %+v", state.Nodes)
	}
}

func TestRunnerTimesOutWithIdleEgo(t *testing.T) {
	r, err := New(testRegistry(), nil,
		WithClock(fixedClock()),
		WithAgent(AgentFunc(func(*world.Actor, *world.Map, float64) {})),
	)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	req := parkingExitRequest(testProvider(t))
	req.Config.Timeout = 1.0
	result, err := r.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != StatusTimeout {
		t.Fatalf("expected timeout, got %s", result.Status)
	}
	if !strings.Contains(result.Reason, "timeout") {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}

func TestRunnerFailsOnCollision(t *testing.T) {
	// Drive blindly along the parking lane, straight into the front blocker.
	ram := AgentFunc(func(ego *world.Actor, _ *world.Map, _ float64) {
		ego.SetHeading(0)
		ego.SetTargetSpeed(8)
	})
	r, err := New(testRegistry(), nil, WithClock(fixedClock()), WithAgent(ram))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	result, err := r.Run(context.Background(), parkingExitRequest(testProvider(t)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("expected failure, got %s (%s)", result.Status, result.Reason)
	}
	if !strings.Contains(result.Reason, "collision") {
		t.Fatalf("expected collision in reason, got %q", result.Reason)
	}
}

func TestRunnerHonorsTickBudget(t *testing.T) {
	r, err := New(testRegistry(), nil,
		WithClock(fixedClock()),
		WithAgent(AgentFunc(func(*world.Actor, *world.Map, float64) {})),
	)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	req := parkingExitRequest(testProvider(t))
	req.MaxTicks = 5
	result, err := r.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != StatusTimeout || result.Ticks != 5 {
		t.Fatalf("expected tick budget timeout after 5 ticks, got %+v", result)
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	r, err := New(testRegistry(), nil, WithClock(fixedClock()))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, parkingExitRequest(testProvider(t)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Reason, "cancelled") {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}

func TestRunnerRejectsUnknownScenario(t *testing.T) {
	r, err := New(testRegistry(), nil)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	req := parkingExitRequest(testProvider(t))
	req.ScenarioID = "does-not-exist"
	if _, err := r.Run(context.Background(), req); err == nil {
		t.Fatalf("expected unknown scenario error")
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository(t.TempDir())
	if _, err := repo.Load(); err != ErrStateNotFound {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
	state := State{
		RunID:      "run-1",
		ScenarioID: "parking-exit",
		Status:     StatusRunning,
		Ticks:      12,
		SimTime:    0.6,
		UpdatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != state.RunID || loaded.Ticks != 12 || loaded.Status != StatusRunning {
		t.Fatalf("unexpected state: %+v", loaded)
	}
}

func TestRepositorySaveReplacesSnapshotCleanly(t *testing.T) {
	dir := t.TempDir()
	repo := NewRepository(dir)
	for i := 0; i < 3; i++ {
		state := State{RunID: fmt.Sprintf("run-%d", i), Status: StatusRunning, Ticks: i}
		if err := repo.Save(state); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only state.json, got %v", names)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != "run-2" || loaded.Ticks != 2 {
		t.Fatalf("expected last snapshot to win, got %+v", loaded)
	}
}

func TestMetricsCollectRunOutcomes(t *testing.T) {
	metrics := NewMetrics()
	r, err := New(testRegistry(), nil, WithClock(fixedClock()), WithMetrics(metrics))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	result, err := r.Run(context.Background(), parkingExitRequest(testProvider(t)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Passed() {
		t.Fatalf("expected pass, got %s (%s)", result.Status, result.Reason)
	}
	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	for _, want := range []string{"scenic_ticks_total", "scenic_runs_total", "scenic_sim_time_seconds"} {
		if !names[want] {
			t.Fatalf("missing metric family %s in %v", want, names)
		}
	}
}
