package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/dayplanner/internal/events"
	"github.com/aristath/dayplanner/internal/scheduler"
)

// PaneID identifies which pane is focused.
type PaneID int

const (
	PaneTasks PaneID = iota
	PanePlan
)

const paneCount = 2

// eventBuffer is sized so a whole day of events fits while the viewer is
// replaying at a slow pace.
const eventBuffer = 4096

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	taskPane    TaskPaneModel
	planPane    PlanPaneModel
	focusedPane PaneID
	eventSub    <-chan events.Event
	pace        time.Duration
	width       int
	height      int
	quitting    bool
}

// New creates a new TUI model. It subscribes to every topic on the bus, so it
// must be created before the scheduler starts publishing. pace delays each
// event so the day can be watched unfolding.
func New(eventBus *events.EventBus, specs []scheduler.TaskSpec, kind string, pace time.Duration) Model {
	m := Model{
		taskPane:    NewTaskPaneModel(specs),
		planPane:    NewPlanPaneModel(kind, len(specs)),
		focusedPane: PaneTasks,
		eventSub:    eventBus.SubscribeAll(eventBuffer),
		pace:        pace,
	}
	m.updateFocusStates()
	return m
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.eventSub, m.pace)
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event, pace time.Duration) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		if pace > 0 {
			time.Sleep(pace)
		}
		return event
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.NextPane):
			m.focusedPane = (m.focusedPane + 1) % paneCount
			m.updateFocusStates()

		case key.Matches(msg, keys.PrevPane):
			m.focusedPane = (m.focusedPane + paneCount - 1) % paneCount
			m.updateFocusStates()

		case key.Matches(msg, keys.Tasks):
			m.focusedPane = PaneTasks
			m.updateFocusStates()

		case key.Matches(msg, keys.Plan):
			m.focusedPane = PanePlan
			m.updateFocusStates()

		default:
			switch m.focusedPane {
			case PaneTasks:
				var cmd tea.Cmd
				m.taskPane, cmd = m.taskPane.Update(msg)
				cmds = append(cmds, cmd)
			case PanePlan:
				var cmd tea.Cmd
				m.planPane, cmd = m.planPane.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()

	case events.TaskStartedEvent, events.TaskCompletedEvent, events.TaskAbandonedEvent:
		// Both panes track task events: the list for status, the plan for the clock.
		var cmd tea.Cmd
		m.taskPane, cmd = m.taskPane.Update(msg)
		cmds = append(cmds, cmd)
		m.planPane, cmd = m.planPane.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, waitForEvent(m.eventSub, m.pace))

	case events.PlanProgressEvent, events.WindowSearchedEvent, events.RunFinishedEvent:
		var cmd tea.Cmd
		m.planPane, cmd = m.planPane.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, waitForEvent(m.eventSub, m.pace))
	}

	return m, tea.Batch(cmds...)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, m.taskPane.View(), m.planPane.View())
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, HelpView(m.width))
}

// Finished reports whether the run being watched has ended.
func (m Model) Finished() bool {
	return m.planPane.Finished()
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 60) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 1 // help bar

	m.taskPane.SetSize(leftWidth, availableHeight)
	m.planPane.SetSize(rightWidth, availableHeight)

	m.updateFocusStates()
}

// updateFocusStates updates the focus state of all panes.
func (m *Model) updateFocusStates() {
	m.taskPane.SetFocused(m.focusedPane == PaneTasks)
	m.planPane.SetFocused(m.focusedPane == PanePlan)
}
