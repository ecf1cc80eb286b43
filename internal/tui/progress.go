// internal/tui/progress.go
// Package tui shows the progress of a benchmark run in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/langbench/internal/harness"
	"github.com/mwiater/langbench/internal/logging"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// eventMsg carries a pipeline event into the program.
type eventMsg harness.Event

// finishedMsg is sent once the pipeline returns.
type finishedMsg struct {
	result harness.SuiteResult
	err    error
}

// step is one line of the view.
type step struct {
	label   string
	detail  string
	started time.Time
	elapsed time.Duration
	done    bool
	err     error
}

// Model is the Bubble Tea model of the progress view.
type Model struct {
	spinner spinner.Model
	title   string
	steps   []*step
	index   map[string]*step

	finished bool
	result   harness.SuiteResult
	err      error

	cancel context.CancelFunc
	now    func() time.Time
}

// NewModel creates an empty progress view. cancel, when set, is called on
// ctrl+c.
func NewModel(title string, cancel context.CancelFunc) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{
		spinner: s,
		title:   title,
		index:   map[string]*step{},
		cancel:  cancel,
		now:     time.Now,
	}
}

func stepKey(ev harness.Event) string {
	if ev.Task.Command == "" {
		return string(ev.Stage)
	}
	return string(ev.Stage) + ":" + ev.Task.Key().String()
}

func stepLabel(ev harness.Event) string {
	switch ev.Stage {
	case harness.StageTiming:
		return "Timing all commands with hyperfine"
	case harness.StageMemory:
		if ev.Task.Command != "" {
			return "Sampling memory of " + ev.Task.Key().String()
		}
		return "Sampling memory"
	case harness.StageLines:
		return "Counting source lines"
	case harness.StageAggregate:
		return "Aggregating replicas"
	}
	return string(ev.Stage)
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, nil

	case eventMsg:
		m.apply(harness.Event(msg))
		return m, nil

	case finishedMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) apply(ev harness.Event) {
	if ev.Stage == harness.StageDone {
		return
	}
	key := stepKey(ev)
	s, ok := m.index[key]
	if !ok {
		s = &step{label: stepLabel(ev), started: m.now()}
		m.index[key] = s
		m.steps = append(m.steps, s)
	}
	if ev.Message != "" {
		s.detail = ev.Message
	}
	if ev.Done || ev.Err != nil {
		s.done = true
		s.err = ev.Err
		s.elapsed = m.now().Sub(s.started)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render(m.title) + "\n\n")
	for _, s := range m.steps {
		switch {
		case s.err != nil:
			fmt.Fprintf(&b, "  %s %s %s\n", errStyle.Render("✗"), s.label, errStyle.Render(s.err.Error()))
		case s.done:
			fmt.Fprintf(&b, "  %s %s %s\n", doneStyle.Render("✓"), s.label, dimStyle.Render(s.elapsed.Round(time.Millisecond).String()))
		default:
			line := fmt.Sprintf("  %s %s", m.spinner.View(), s.label)
			if s.detail != "" {
				line += " " + dimStyle.Render(s.detail)
			}
			b.WriteString(line + "\n")
		}
	}
	if m.finished {
		if m.err != nil {
			b.WriteString("\n  " + errStyle.Render("Run failed") + "\n")
		} else {
			b.WriteString("\n  " + doneStyle.Render("Run complete") + "\n")
		}
	}
	return b.String()
}

// Run shows the progress view while suite runs in the background. suite
// receives the observer to attach to its SuiteConfig. Log output is held
// back while the view owns the terminal and written once it exits.
func Run(ctx context.Context, title string, suite func(ctx context.Context, observe func(harness.Event)) (harness.SuiteResult, error)) (harness.SuiteResult, error) {
	return run(ctx, title, suite)
}

func run(ctx context.Context, title string, suite func(ctx context.Context, observe func(harness.Event)) (harness.SuiteResult, error), opts ...tea.ProgramOption) (harness.SuiteResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	release := logging.Hold()
	defer release()

	m := NewModel(title, cancel)
	p := tea.NewProgram(m, opts...)

	finished := make(chan finishedMsg, 1)
	go func() {
		res, err := suite(ctx, func(ev harness.Event) { p.Send(eventMsg(ev)) })
		msg := finishedMsg{result: res, err: err}
		finished <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return harness.SuiteResult{}, fmt.Errorf("progress view: %w", err)
	}
	msg := <-finished
	return msg.result, msg.err
}
