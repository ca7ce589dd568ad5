// cmd/scenario-runner/main.go
//
// Headless scenario execution. Resolves a catalog definition (or a bare
// scenario type), runs it to completion, prints the verdict, and exits
// non-zero when the run did not pass. Useful for CI and scripted sweeps.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kerbworks/scenic/catalog"
	"github.com/kerbworks/scenic/internal/api"
	"github.com/kerbworks/scenic/internal/config"
	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/logging"
	"github.com/kerbworks/scenic/internal/runner"
	"github.com/kerbworks/scenic/internal/scenario"
	"github.com/kerbworks/scenic/internal/world"
)

func main() {
	scenarioID := flag.String("scenario", "", "catalog definition or scenario type to run (e.g. parking-exit)")
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	mapFile := flag.String("map", "", "map definition YAML overriding the configured map")
	maxTicks := flag.Int("ticks", 0, "abort the run after this many ticks (0 = no cap)")
	serve := flag.Bool("serve", false, "serve the status API and metrics while the run executes")
	realtime := flag.Bool("realtime", false, "pace ticks against the wall clock")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	params := keyValueFlag{}
	flag.Var(&params, "set", "scenario parameter override (key=value, repeatable)")
	flag.Parse()

	if strings.TrimSpace(*scenarioID) == "" {
		die("--scenario is required")
	}

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitScenicDir(absoluteProject); err != nil {
		die("init .scenic: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogsDir(), logging.Options{Level: *logLevel, Console: true})
	if err != nil {
		die("open log: %v", err)
	}
	defer logger.Close()

	registry := scenario.NewRegistry()
	scenario.RegisterBuiltins(registry)

	index, err := catalog.Discover(cfg.CatalogDirs())
	if err != nil {
		die("load catalog: %v", err)
	}

	def, err := resolveDefinition(index, registry, *scenarioID)
	if err != nil {
		die("%v", err)
	}
	applyOverrides(&def, params)

	m, err := loadMap(cfg, def, *mapFile)
	if err != nil {
		die("load map: %v", err)
	}
	provider, err := world.NewProvider(m, nil)
	if err != nil {
		die("build world: %v", err)
	}

	store := runner.NewRepository(cfg.RunsDir())
	metrics := runner.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		server := api.NewServer(cfg.ListenAddr(), store,
			api.WithLogger(logger.Logger),
			api.WithMetrics(metrics),
			api.WithCatalog(index),
		)
		if err := server.Start(ctx); err != nil {
			die("start api: %v", err)
		}
		defer server.Shutdown(context.Background())
		fmt.Printf("Status API on http://%s\n", server.Addr())
	}

	r, err := runner.New(registry, store,
		runner.WithLogger(logger.Logger),
		runner.WithTickRate(cfg.TickRate()),
		runner.WithMetrics(metrics),
		runner.WithRealTime(*realtime || cfg.RealTime()),
	)
	if err != nil {
		die("build runner: %v", err)
	}

	result, err := r.Run(ctx, runner.Request{
		ScenarioID: def.Scenario,
		Config:     def.Config(),
		Provider:   provider,
		EgoFilter:  def.EgoFilter,
		MaxTicks:   *maxTicks,
	})
	if err != nil {
		die("run scenario: %v", err)
	}

	fmt.Printf("Run %s: %s after %d ticks (%.1fs simulated)\n",
		result.RunID, result.Status, result.Ticks, result.SimTime)
	if result.Reason != "" {
		fmt.Println(result.Reason)
	}
	for _, res := range result.Criteria {
		verdict := "pass"
		if !res.Passed {
			verdict = "FAIL"
		}
		line := fmt.Sprintf("  %s %s", verdict, res.Name)
		if res.Details != "" {
			line += " - " + res.Details
		}
		fmt.Println(line)
	}
	if !result.Passed() {
		os.Exit(1)
	}
}

// resolveDefinition prefers a catalog entry; a bare registered scenario type
// runs on the default trigger instead.
func resolveDefinition(index *catalog.Index, registry *scenario.Registry, id string) (catalog.Definition, error) {
	if file, ok := index.Find(id); ok {
		return file.Definition, nil
	}
	for _, known := range registry.IDs() {
		if known == id {
			return catalog.Definition{
				ID:       id,
				Scenario: id,
				Triggers: []geom.Transform{{Location: geom.Vector{X: 30}}},
			}, nil
		}
	}
	available := append(index.IDs(), registry.IDs()...)
	return catalog.Definition{}, fmt.Errorf("unknown scenario %q (available: %s)", id, strings.Join(available, ", "))
}

func applyOverrides(def *catalog.Definition, params keyValueFlag) {
	if len(params) == 0 {
		return
	}
	if def.Parameters == nil {
		def.Parameters = scenario.Parameters{}
	}
	for key, value := range params {
		def.Parameters[key] = scenario.ParameterValue{Value: value}
	}
}

// loadMap resolves the map with precedence: --map flag, the definition's map,
// the project default, then the built-in straight.
func loadMap(cfg *config.Config, def catalog.Definition, flagPath string) (*world.Map, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(def.Map)
	}
	if path == "" {
		path = cfg.MapPath()
	}
	if path == "" {
		return world.DefaultMap(), nil
	}
	return world.LoadMapFile(path)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for key, value := range *kv {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	(*kv)[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	return nil
}
