// internal/config/config.go
//
// This package handles configuration and the .scenic directory structure.
// Every project that uses Scenic gets a .scenic/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ScenicDir is the name of the directory we create in each project
	ScenicDir = ".scenic"

	defaultScenarioID = "parking-exit"
	defaultTickRate   = 20.0
	defaultListenAddr = "127.0.0.1:8791"
)

const defaultProjectConfigYAML = `# scenic project configuration
version: 1

# Map definition file under .scenic/maps. Leave empty to use the built-in
# kerbside straight.
map: ""

simulation:
  tick_rate: 20

# Directories scanned for scenario definition YAML files, relative to the
# project root.
catalogs:
  - .scenic/catalog

scenarios:
  default: parking-exit

api:
  listen: 127.0.0.1:8791
`

// SimulationConfig tunes the tick loop.
type SimulationConfig struct {
	TickRate float64 `yaml:"tick_rate"`
	RealTime bool    `yaml:"real_time,omitempty"`
}

// ScenarioConfig captures scenario selection preferences.
type ScenarioConfig struct {
	Default string `yaml:"default"`
}

// APIConfig configures the status server.
type APIConfig struct {
	Listen string `yaml:"listen"`
}

// ProjectConfig models .scenic/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Map        string           `yaml:"map"`
	Simulation SimulationConfig `yaml:"simulation"`
	Catalogs   []string         `yaml:"catalogs"`
	Scenarios  ScenarioConfig   `yaml:"scenarios"`
	API        APIConfig        `yaml:"api"`
}

// Config holds the runtime configuration for Scenic.
type Config struct {
	// ProjectDir is the directory where the user ran `scenic` from
	ProjectDir string

	// ScenicProjectDir is ProjectDir/.scenic
	ScenicProjectDir string

	Project ProjectConfig
}

// InitScenicDir creates the .scenic directory structure in the given project
// directory. This is called when the TUI starts up.
//
// Structure created:
// .scenic/
// ├── catalog/  <- Scenario definition YAML files
// ├── maps/     <- Map definition YAML files
// ├── logs/     <- Run logs
// └── runs/     <- Persisted run state
func InitScenicDir(projectDir string) error {
	scenicDir := filepath.Join(projectDir, ScenicDir)

	dirs := []string{
		filepath.Join(scenicDir, "catalog"),
		filepath.Join(scenicDir, "maps"),
		filepath.Join(scenicDir, "logs"),
		filepath.Join(scenicDir, "runs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(scenicDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ScenicProjectDir: filepath.Join(projectDir, ScenicDir),
		Project:          defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ScenicProjectDir, "logs")
}

// RunsDir returns the path to the persisted run state directory
func (c *Config) RunsDir() string {
	return filepath.Join(c.ScenicProjectDir, "runs")
}

// MapsDir returns the path to the map definition directory
func (c *Config) MapsDir() string {
	return filepath.Join(c.ScenicProjectDir, "maps")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ScenicProjectDir, "config.yaml")
}

// MapPath returns the configured map file resolved against the project
// directory, or "" when the built-in map should be used.
func (c *Config) MapPath() string {
	if c.Project.Map == "" {
		return ""
	}
	return resolvePath(c.ProjectDir, c.Project.Map)
}

// CatalogDirs returns the scenario catalog directories, resolved against the
// project directory. The stored entries stay relative so the project remains
// relocatable.
func (c *Config) CatalogDirs() []string {
	out := make([]string, 0, len(c.Project.Catalogs))
	for _, dir := range c.Project.Catalogs {
		out = append(out, resolvePath(c.ProjectDir, dir))
	}
	return out
}

// TickRate returns the configured simulation frequency in Hz.
func (c *Config) TickRate() float64 {
	return c.Project.Simulation.TickRate
}

// RealTime reports whether runs should be paced against the wall clock.
func (c *Config) RealTime() bool {
	return c.Project.Simulation.RealTime
}

// ListenAddr returns the status API listen address.
func (c *Config) ListenAddr() string {
	return c.Project.API.Listen
}

// DefaultScenario returns the configured default scenario identifier.
func (c *Config) DefaultScenario() string {
	return c.Project.Scenarios.Default
}

// SetDefaultScenario updates the default scenario identifier and persists the
// value back to .scenic/config.yaml so future launches start from it.
func (c *Config) SetDefaultScenario(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: scenario id is required")
	}
	c.Project.Scenarios.Default = id
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{
		Version:    1,
		Simulation: SimulationConfig{TickRate: defaultTickRate},
		Catalogs:   []string{filepath.Join(ScenicDir, "catalog")},
		Scenarios:  ScenarioConfig{Default: defaultScenarioID},
		API:        APIConfig{Listen: defaultListenAddr},
	}
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Simulation.TickRate == 0 {
		pc.Simulation.TickRate = defaultTickRate
	}
	if len(pc.Catalogs) == 0 {
		pc.Catalogs = []string{filepath.Join(ScenicDir, "catalog")}
	}
	if pc.API.Listen == "" {
		pc.API.Listen = defaultListenAddr
	}
}

// normalize trims the config in place. Paths are kept as written, relative or
// not; accessors resolve them against the project directory on read.
func (pc *ProjectConfig) normalize() {
	pc.Map = strings.TrimSpace(pc.Map)
	for i := range pc.Catalogs {
		pc.Catalogs[i] = strings.TrimSpace(pc.Catalogs[i])
	}
	pc.Scenarios.Default = strings.TrimSpace(pc.Scenarios.Default)
	if pc.Scenarios.Default == "" {
		pc.Scenarios.Default = defaultScenarioID
	}
	pc.API.Listen = strings.TrimSpace(pc.API.Listen)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be > 0")
	}
	if strings.TrimSpace(pc.Scenarios.Default) == "" {
		return fmt.Errorf("scenarios.default is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ScenicProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure scenic dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
