package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kerbworks/scenic/internal/behavior"
	"github.com/kerbworks/scenic/internal/criteria"
	"github.com/kerbworks/scenic/internal/scenario"
	"github.com/kerbworks/scenic/internal/world"
)

const (
	defaultTickRate      = 20.0 // Hz
	defaultSnapshotEvery = 5    // ticks between persisted snapshots
)

// Runner executes one scenario at a time: it resolves the scenario from the
// registry, then ticks agent, world, behavior tree, and criteria in lockstep
// until the tree finishes, a budget runs out, or the context is cancelled.
type Runner struct {
	registry      *scenario.Registry
	store         StateStore
	logger        zerolog.Logger
	clock         func() time.Time
	tickRate      float64
	snapshotEvery int
	agent         Agent
	metrics       *Metrics
	realtime      bool
}

// Option customizes the runner instance.
type Option func(*Runner)

// WithLogger attaches a structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithTickRate overrides the simulation frequency in Hz.
func WithTickRate(hz float64) Option {
	return func(r *Runner) {
		if hz > 0 {
			r.tickRate = hz
		}
	}
}

// WithAgent overrides the ego driver.
func WithAgent(agent Agent) Option {
	return func(r *Runner) {
		if agent != nil {
			r.agent = agent
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithRealTime paces ticks against the wall clock instead of running flat out.
func WithRealTime(enabled bool) Option {
	return func(r *Runner) {
		r.realtime = enabled
	}
}

// New wires a runner to the scenario registry and persistence store.
func New(registry *scenario.Registry, store StateStore, opts ...Option) (*Runner, error) {
	if registry == nil {
		return nil, fmt.Errorf("runner: scenario registry is required")
	}
	if store == nil {
		store = NopStore{}
	}
	r := &Runner{
		registry:      registry,
		store:         store,
		logger:        zerolog.Nop(),
		clock:         time.Now,
		tickRate:      defaultTickRate,
		snapshotEvery: defaultSnapshotEvery,
		agent:         LaneFollow{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Request describes one scenario run.
type Request struct {
	ScenarioID string
	Config     scenario.Config
	Provider   *world.Provider
	// EgoFilter selects the ego blueprint when the provider has no ego yet.
	EgoFilter string
	// MaxTicks caps the run independently of the scenario timeout; zero
	// disables the cap.
	MaxTicks int
}

// Run executes the scenario to completion and returns the final result. The
// persisted state is refreshed while the run progresses so the TUI and the
// status API can watch it.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if req.Provider == nil {
		return Result{}, fmt.Errorf("runner: world provider is required")
	}
	trigger, err := req.Config.TriggerPoint()
	if err != nil {
		return Result{}, err
	}
	ego := req.Provider.Ego()
	if ego == nil {
		filter := req.EgoFilter
		if filter == "" {
			filter = "vehicle.*"
		}
		ego, err = req.Provider.SpawnEgo(filter, trigger)
		if err != nil {
			return Result{}, err
		}
	}
	s, err := r.registry.Resolve(req.ScenarioID, req.Provider, ego, req.Config)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	logger := r.logger.With().
		Str("run_id", runID).
		Str("scenario", s.Info().ID).
		Logger()
	logger.Info().
		Float64("timeout_s", s.Timeout()).
		Int("other_actors", len(s.OtherActors())).
		Msg("scenario run started")

	state := State{
		RunID:        runID,
		ScenarioID:   s.Info().ID,
		ScenarioName: s.Info().Name,
		MapName:      req.Provider.Map().Name(),
		Status:       StatusRunning,
	}
	r.persist(&state, s, logger)

	dt := 1 / r.tickRate
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			state.Status = StatusError
			state.StatusReason = fmt.Sprintf("run cancelled: %v", err)
			break
		}
		r.agent.Drive(ego, req.Provider.Map(), dt)
		req.Provider.Tick(dt)
		treeStatus := s.Root().Tick(dt)
		for _, c := range s.Criteria() {
			c.Tick(dt)
		}
		state.Ticks++
		state.SimTime += dt

		results := criteria.Evaluate(s.Criteria())
		failing := 0
		for _, res := range results {
			if !res.Passed {
				failing++
			}
		}
		r.metrics.observeTick(state.SimTime, failing)

		if done := r.settle(&state, s, treeStatus, results); done {
			break
		}
		if req.MaxTicks > 0 && state.Ticks >= req.MaxTicks {
			state.Status = StatusTimeout
			state.StatusReason = fmt.Sprintf("tick budget of %d exhausted", req.MaxTicks)
			break
		}
		if state.Ticks%r.snapshotEvery == 0 {
			r.persist(&state, s, logger)
		}
		if r.realtime {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	state.Criteria = criteria.Evaluate(s.Criteria())
	r.persist(&state, s, logger)
	r.metrics.observeRun(state.Status)
	logger.Info().
		Str("status", string(state.Status)).
		Str("reason", state.StatusReason).
		Int("ticks", state.Ticks).
		Float64("sim_time_s", state.SimTime).
		Msg("scenario run finished")

	return Result{
		RunID:    runID,
		Status:   state.Status,
		Reason:   state.StatusReason,
		Ticks:    state.Ticks,
		SimTime:  state.SimTime,
		Criteria: state.Criteria,
	}, nil
}

// settle folds tree status, criteria, and the timeout into the run status.
// It reports whether the run has reached a terminal state.
func (r *Runner) settle(state *State, s scenario.Scenario, treeStatus behavior.Status, results []criteria.Result) bool {
	switch {
	case treeStatus == behavior.StatusFailure:
		state.Status = StatusFailed
		state.StatusReason = "behavior tree failed"
	case treeStatus == behavior.StatusSuccess:
		if criteria.AllPassed(results) {
			state.Status = StatusPassed
		} else {
			state.Status = StatusFailed
			state.StatusReason = criteria.Failures(results)
		}
	case state.SimTime >= s.Timeout():
		state.Status = StatusTimeout
		state.StatusReason = fmt.Sprintf("timeout after %.0fs of simulation", s.Timeout())
	default:
		return false
	}
	return true
}

// persist refreshes the snapshot fields and saves the state, logging but not
// failing the run on store errors.
func (r *Runner) persist(state *State, s scenario.Scenario, logger zerolog.Logger) {
	state.Nodes = flattenTree(s.Root(), 0)
	state.Criteria = criteria.Evaluate(s.Criteria())
	state.UpdatedAt = r.clock()
	if err := r.store.Save(*state); err != nil {
		logger.Warn().Err(err).Msg("persist run state")
	}
}
