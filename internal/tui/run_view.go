package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbworks/scenic/catalog"
	"github.com/kerbworks/scenic/internal/behavior"
	"github.com/kerbworks/scenic/internal/runner"
)

const stateRefreshInterval = 500 * time.Millisecond

var (
	statusStylePassed  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	statusStyleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	statusStyleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	statusStyleTimeout = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	statusStyleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	detailTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// runView drives one scenario run and renders its progress. The run itself
// executes on a background goroutine; the view polls the state store for
// snapshots until the run finishes.
type runView struct {
	app        *App
	definition catalog.Definition
	runner     *runner.Runner
	request    runner.Request
	cancel     context.CancelFunc

	state       runner.State
	stateLoaded bool
	result      *runner.Result
	err         error
	finished    bool
}

type runFinishedMsg struct {
	result runner.Result
	err    error
}

type runRefreshMsg struct{}

func newRunView(app *App, def catalog.Definition, r *runner.Runner, req runner.Request) *runView {
	return &runView{
		app:        app,
		definition: def,
		runner:     r,
		request:    req,
	}
}

// Init launches the run and schedules the first snapshot poll.
func (v *runView) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	run := func() tea.Msg {
		result, err := v.runner.Run(ctx, v.request)
		return runFinishedMsg{result: result, err: err}
	}
	return tea.Batch(run, v.scheduleRefresh())
}

func (v *runView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case runFinishedMsg:
		v.finished = true
		if m.err != nil {
			v.err = m.err
			return nil
		}
		v.result = &m.result
		return v.loadState()
	case runRefreshMsg:
		if v.finished {
			return nil
		}
		return tea.Batch(v.loadState(), v.scheduleRefresh())
	default:
		return nil
	}
}

// stop cancels an in-flight run. Safe to call more than once.
func (v *runView) stop() {
	if v.cancel != nil {
		v.cancel()
	}
}

func (v *runView) scheduleRefresh() tea.Cmd {
	return tea.Tick(stateRefreshInterval, func(time.Time) tea.Msg {
		return runRefreshMsg{}
	})
}

func (v *runView) loadState() tea.Cmd {
	state, err := v.app.store.Load()
	if err != nil {
		if !errors.Is(err, runner.ErrStateNotFound) {
			v.err = err
		}
		return nil
	}
	v.state = state
	v.stateLoaded = true
	return nil
}

func (v *runView) View() string {
	if v.err != nil {
		return fmt.Sprintf("Run error: %v\n\nesc=back to menu", v.err)
	}
	if !v.stateLoaded {
		return "Starting scenario…"
	}

	header := fmt.Sprintf("Scenario: %s · Map: %s", v.state.ScenarioName, v.state.MapName)
	statusLine := fmt.Sprintf("Status: %s · Tick %d · %.1fs simulated",
		statusStyle(v.state.Status).Render(string(v.state.Status)),
		v.state.Ticks, v.state.SimTime)
	if v.state.StatusReason != "" {
		statusLine += detailTextStyle.Render(" · " + v.state.StatusReason)
	}

	lines := []string{header, statusLine, "", "Behavior tree:"}
	for _, node := range v.state.Nodes {
		lines = append(lines, renderNodeLine(node))
	}

	if len(v.state.Criteria) > 0 {
		lines = append(lines, "", "Criteria:")
		for _, res := range v.state.Criteria {
			lines = append(lines, renderCriterionLine(res.Name, res.Passed, res.Details))
		}
	}

	lines = append(lines, "")
	if v.finished {
		lines = append(lines, "esc=back to menu")
	} else {
		lines = append(lines, "esc=abort run")
	}
	return strings.Join(lines, "\n")
}

func renderNodeLine(node runner.NodeStatus) string {
	indent := strings.Repeat("  ", node.Depth)
	return fmt.Sprintf("%s%s %s", indent, nodeGlyph(node.Status), node.Name)
}

func renderCriterionLine(name string, passed bool, details string) string {
	verdict := statusStylePassed.Render("pass")
	if !passed {
		verdict = statusStyleFailed.Render("FAIL")
	}
	line := fmt.Sprintf("  %s %s", verdict, name)
	if details != "" {
		line += detailTextStyle.Render(" · " + details)
	}
	return line
}

func nodeGlyph(status behavior.Status) string {
	switch status {
	case behavior.StatusSuccess:
		return statusStylePassed.Render("✓")
	case behavior.StatusFailure:
		return statusStyleFailed.Render("✗")
	case behavior.StatusRunning:
		return statusStyleRunning.Render("▶")
	default:
		return statusStyleIdle.Render("·")
	}
}

func statusStyle(status runner.Status) lipgloss.Style {
	switch status {
	case runner.StatusPassed:
		return statusStylePassed
	case runner.StatusFailed, runner.StatusError:
		return statusStyleFailed
	case runner.StatusTimeout:
		return statusStyleTimeout
	case runner.StatusRunning:
		return statusStyleRunning
	default:
		return statusStyleIdle
	}
}
