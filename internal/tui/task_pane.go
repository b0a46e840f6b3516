package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/dayplanner/internal/events"
	"github.com/aristath/dayplanner/internal/scheduler"
)

// Task display states.
const (
	stateWaiting   = "waiting"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateAbandoned = "abandoned"
)

// TaskState is what the viewer knows about one task.
type TaskState struct {
	Spec     scheduler.TaskSpec
	Status   string
	Start    int // Clock when the task started, valid once running
	End      int // Clock when the task completed
	Priority float64
	Reason   string
}

// TaskPaneModel lists the tasks of the day beside a viewport with the
// selected task's details.
type TaskPaneModel struct {
	tasks       map[int]*TaskState
	order       []int // declaration order
	selectedIdx int
	viewport    viewport.Model
	width       int
	height      int
	focused     bool
}

const listWidth = 30

// NewTaskPaneModel creates a task pane for specs, all waiting.
func NewTaskPaneModel(specs []scheduler.TaskSpec) TaskPaneModel {
	m := TaskPaneModel{
		tasks:    make(map[int]*TaskState, len(specs)),
		viewport: viewport.New(0, 0),
	}
	for _, spec := range specs {
		m.tasks[spec.ID] = &TaskState{Spec: spec, Status: stateWaiting}
		m.order = append(m.order, spec.ID)
	}
	m.updateViewportContent()
	return m
}

// Update handles messages for the task pane.
func (m TaskPaneModel) Update(msg tea.Msg) (TaskPaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case tea.KeyMsg:
		if !m.focused {
			break
		}

		switch {
		case key.Matches(msg, keys.Down):
			if m.selectedIdx < len(m.order)-1 {
				m.selectedIdx++
				m.updateViewportContent()
			}
		case key.Matches(msg, keys.Up):
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.updateViewportContent()
			}
		default:
			m.viewport, cmd = m.viewport.Update(msg)
		}

	case events.TaskStartedEvent:
		if task, ok := m.tasks[msg.ID]; ok {
			task.Status = stateRunning
			task.Start = msg.Clock
			task.Priority = msg.Priority
			task.Reason = msg.Reason
			m.follow(msg.ID)
		}

	case events.TaskCompletedEvent:
		if task, ok := m.tasks[msg.ID]; ok {
			task.Status = stateCompleted
			task.End = msg.Clock
			m.refresh(msg.ID)
		}

	case events.TaskAbandonedEvent:
		if task, ok := m.tasks[msg.ID]; ok {
			task.Status = stateAbandoned
			m.refresh(msg.ID)
		}
	}

	return m, cmd
}

// View renders the task pane.
func (m TaskPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskList(listWidth),
		lipgloss.NewStyle().
			Width(m.width-listWidth-4).
			Height(m.height-2).
			Render(m.viewport.View()),
	)

	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

func (m TaskPaneModel) renderTaskList(width int) string {
	var b strings.Builder

	title := styleTitle.Render("Tasks")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(width, lipgloss.Width(title))))
	b.WriteString("\n\n")

	if len(m.order) == 0 {
		b.WriteString(statusStyle(stateWaiting).Render("No tasks"))
	}
	for i, id := range m.order {
		task := m.tasks[id]
		name := fmt.Sprintf("%d %s", id, task.Spec.Description)
		if r := []rune(name); len(r) > width-4 {
			name = string(r[:width-7]) + "..."
		}

		line := fmt.Sprintf("%s %s", StatusIcon(task.Status), name)
		if i == m.selectedIdx {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(m.height - 2).
		Render(b.String())
}

// statusIcons are the list markers of each task state.
var statusIcons = map[string]string{
	stateWaiting:   "○",
	stateRunning:   "●",
	stateCompleted: "✓",
	stateAbandoned: "✗",
}

// StatusIcon returns a styled status indicator.
func StatusIcon(status string) string {
	icon, ok := statusIcons[status]
	if !ok {
		icon = statusIcons[stateWaiting]
	}
	return statusStyle(status).Render(icon)
}

// Selected returns the state of the highlighted task.
func (m TaskPaneModel) Selected() (*TaskState, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.order) {
		return nil, false
	}
	task, ok := m.tasks[m.order[m.selectedIdx]]
	return task, ok
}

// follow moves the selection to the task that just started.
func (m *TaskPaneModel) follow(id int) {
	for i, other := range m.order {
		if other == id {
			m.selectedIdx = i
			break
		}
	}
	m.updateViewportContent()
}

func (m *TaskPaneModel) refresh(id int) {
	if task, ok := m.Selected(); ok && task.Spec.ID == id {
		m.updateViewportContent()
	}
}

func (m *TaskPaneModel) updateViewportContent() {
	task, ok := m.Selected()
	if !ok {
		m.viewport.SetContent("No tasks to show.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", task.Spec.Description)
	fmt.Fprintf(&b, "Status:     %s\n", task.Status)
	fmt.Fprintf(&b, "Duration:   %d mins\n", task.Spec.Duration)
	fmt.Fprintf(&b, "Preference: %d\n", task.Spec.Preference)
	if task.Spec.Start != "" {
		fmt.Fprintf(&b, "Fixed start: %s\n", task.Spec.Start)
	}
	if len(task.Spec.DependsOn) > 0 {
		fmt.Fprintf(&b, "Depends on: %v\n", task.Spec.DependsOn)
	}
	switch task.Status {
	case stateRunning:
		fmt.Fprintf(&b, "\nStarted at %s (%s, priority %g)\n", scheduler.FormatClock(task.Start), task.Reason, task.Priority)
	case stateCompleted:
		fmt.Fprintf(&b, "\nRan %s - %s (%s, priority %g)\n",
			scheduler.FormatClock(task.Start), scheduler.FormatClock(task.End), task.Reason, task.Priority)
	case stateAbandoned:
		b.WriteString("\nNever ran: no room left in the day.\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func (m *TaskPaneModel) resizeViewport() {
	viewportWidth := m.width - listWidth - 4
	viewportHeight := m.height - 4

	if viewportWidth < 10 {
		viewportWidth = 10
	}
	if viewportHeight < 5 {
		viewportHeight = 5
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
}

// SetSize updates the pane dimensions.
func (m *TaskPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.resizeViewport()
}

// SetFocused updates the focus state.
func (m *TaskPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
