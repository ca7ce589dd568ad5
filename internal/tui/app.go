// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for Scenic.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbworks/scenic/catalog"
	"github.com/kerbworks/scenic/internal/config"
	"github.com/kerbworks/scenic/internal/geom"
	"github.com/kerbworks/scenic/internal/logging"
	"github.com/kerbworks/scenic/internal/runner"
	"github.com/kerbworks/scenic/internal/scenario"
	"github.com/kerbworks/scenic/internal/world"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMenu appState = iota // Scenario picker
	stateRun                  // Watching a scenario run
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithRegistry overrides the scenario registry used by the TUI.
func WithRegistry(reg *scenario.Registry) AppOption {
	return func(a *App) {
		if reg != nil {
			a.registry = reg
		}
	}
}

// WithStore overrides the run state store used by the TUI.
func WithStore(store runner.StateStore) AppOption {
	return func(a *App) {
		if store != nil {
			a.store = store
		}
	}
}

// WithCatalogIndex overrides the discovered scenario catalog.
func WithCatalogIndex(idx *catalog.Index) AppOption {
	return func(a *App) {
		if idx != nil {
			a.index = idx
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state    appState
	config   *config.Config
	registry *scenario.Registry
	index    *catalog.Index
	store    runner.StateStore
	logger   *logging.Logger

	runView *runView

	// UI components
	menu      list.Model // The scenario picker
	statusMsg string     // Status message to display
	err       error      // Any error to display

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// scenarioItem implements list.Item for catalog entries.
type scenarioItem struct {
	definition catalog.Definition
	title      string
	desc       string
}

func (i scenarioItem) Title() string       { return i.title }
func (i scenarioItem) Description() string { return i.desc }
func (i scenarioItem) FilterValue() string { return i.definition.ID }

// NewApp creates a new App instance rooted at the given project directory.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	if err := config.InitScenicDir(projectDir); err != nil {
		return nil, err
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	// The TUI owns the terminal, so the logger writes to the file only.
	logger, err := logging.New(cfg.LogsDir(), logging.Options{})
	if err != nil {
		return nil, err
	}

	registry := scenario.NewRegistry()
	scenario.RegisterBuiltins(registry)

	index, err := catalog.Discover(cfg.CatalogDirs())
	if err != nil {
		logger.Close()
		return nil, err
	}

	app := &App{
		state:    stateMenu,
		config:   cfg,
		registry: registry,
		index:    index,
		store:    runner.NewRepository(cfg.RunsDir()),
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	menu := list.New(app.buildMenuItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⬡ SCENIC"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	app.menu = menu

	return app, nil
}

// buildMenuItems lists the catalog entries, falling back to a demo run of the
// default scenario on the built-in map when the catalog is empty.
func (a *App) buildMenuItems() []list.Item {
	var items []list.Item
	if a.index != nil {
		for _, file := range a.index.All() {
			def := file.Definition
			title := def.Name
			if title == "" {
				title = def.ID
			}
			desc := def.Description
			if desc == "" {
				desc = fmt.Sprintf("Scenario type: %s", def.Scenario)
			}
			items = append(items, scenarioItem{definition: def, title: title, desc: desc})
		}
	}
	if len(items) == 0 {
		items = append(items, scenarioItem{
			definition: demoDefinition(a.config.DefaultScenario()),
			title:      fmt.Sprintf("%s (demo)", a.config.DefaultScenario()),
			desc:       "Run the built-in scenario on the kerbside straight",
		})
	}
	return items
}

// demoDefinition anchors the given scenario type on the built-in map.
func demoDefinition(scenarioID string) catalog.Definition {
	return catalog.Definition{
		ID:       scenarioID,
		Scenario: scenarioID,
		Triggers: []geom.Transform{{Location: geom.Vector{X: 30}}},
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.menu.SetSize(m.Width, m.Height-2)
		return a, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, a.quit()
		}
	}

	switch a.state {
	case stateRun:
		return a.updateRun(msg)
	default:
		return a.updateMenu(msg)
	}
}

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			return a, a.quit()
		case "enter":
			item, ok := a.menu.SelectedItem().(scenarioItem)
			if !ok {
				return a, nil
			}
			cmd, err := a.startRun(item.definition)
			if err != nil {
				a.err = err
				a.statusMsg = fmt.Sprintf("Run failed to start: %v", err)
				return a, nil
			}
			a.err = nil
			a.state = stateRun
			return a, cmd
		}
	}
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) updateRun(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.runView.stop()
		a.runView = nil
		a.state = stateMenu
		return a, nil
	}
	if a.runView == nil {
		a.state = stateMenu
		return a, nil
	}
	return a, a.runView.Update(msg)
}

// startRun builds a fresh world and launches the selected scenario.
func (a *App) startRun(def catalog.Definition) (tea.Cmd, error) {
	m, err := a.loadMap(def)
	if err != nil {
		return nil, err
	}
	provider, err := world.NewProvider(m, nil)
	if err != nil {
		return nil, err
	}
	r, err := runner.New(a.registry, a.store,
		runner.WithLogger(a.logger.Logger),
		runner.WithTickRate(a.config.TickRate()),
		runner.WithRealTime(a.config.RealTime()),
	)
	if err != nil {
		return nil, err
	}
	req := runner.Request{
		ScenarioID: def.Scenario,
		Config:     def.Config(),
		Provider:   provider,
		EgoFilter:  def.EgoFilter,
	}
	a.runView = newRunView(a, def, r, req)
	return a.runView.Init(), nil
}

// loadMap resolves the map for a definition: the definition's own map file,
// then the project default, then the built-in straight.
func (a *App) loadMap(def catalog.Definition) (*world.Map, error) {
	path := strings.TrimSpace(def.Map)
	if path == "" {
		path = a.config.MapPath()
	}
	if path == "" {
		return world.DefaultMap(), nil
	}
	return world.LoadMapFile(path)
}

func (a *App) quit() tea.Cmd {
	if a.runView != nil {
		a.runView.stop()
	}
	a.logger.Close()
	return tea.Quit
}

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case stateRun:
		if a.runView != nil {
			return a.runView.View()
		}
		return ""
	default:
		view := a.menu.View()
		if a.statusMsg != "" {
			view += "\n" + a.statusMsg
		}
		return view
	}
}
