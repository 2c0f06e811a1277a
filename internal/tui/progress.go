// Package tui renders a running orchestrator invocation as a live
// progress bar, the way Bubble Tea dashboards in the rest of the corpus
// report long-running work.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xbuild/xbuild/internal/tui/components"
)

// StepDoneMsg reports that one step finished (or was skipped via
// --keep-stage). Name is the rule it enacted.
type StepDoneMsg struct {
	Name    string
	Skipped bool
}

// DoneMsg signals the run finished, successfully or not.
type DoneMsg struct {
	Err error
}

// Model is the Bubble Tea state for one orchestrator invocation.
type Model struct {
	bar       components.Progress
	total     int
	completed int
	skipped   int
	last      string
	finished  bool
	err       error
}

// NewModel constructs a progress model tracking total non-noop steps.
func NewModel(total int) Model {
	return Model{bar: components.NewProgress(total), total: total}
}

// Init starts the program; there is nothing to kick off asynchronously,
// the runner drives messages in from its own goroutine.
func (m Model) Init() tea.Cmd { return nil }

// Update advances the model in response to a step completing or the run
// finishing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepDoneMsg:
		m.completed++
		if msg.Skipped {
			m.skipped++
		}
		m.last = msg.Name
		return m, nil
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current progress bar and last-completed step.
func (m Model) View() string {
	out := m.bar.View(m.completed) + "\n"
	if m.last != "" {
		out += "last: " + m.last + "\n"
	}
	if m.finished && m.err != nil {
		out += "failed: " + m.err.Error() + "\n"
	}
	return out
}
