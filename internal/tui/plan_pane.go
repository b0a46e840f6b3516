package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/dayplanner/internal/events"
	"github.com/aristath/dayplanner/internal/scheduler"
)

// PlanPaneModel shows the simulated clock and how far the day has got.
type PlanPaneModel struct {
	kind       string
	clock      int
	total      int
	completed  int
	queued     int
	pending    int
	abandoned  int
	windows    int
	lastWindow *events.WindowSearchedEvent
	finished   *events.RunFinishedEvent
	width      int
	height     int
	focused    bool
}

// NewPlanPaneModel creates a plan pane for a run of the given scheduler kind.
func NewPlanPaneModel(kind string, total int) PlanPaneModel {
	return PlanPaneModel{kind: kind, total: total, pending: total}
}

// Update handles messages for the plan pane.
func (m PlanPaneModel) Update(msg tea.Msg) (PlanPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case events.TaskStartedEvent:
		m.clock = msg.Clock

	case events.TaskAbandonedEvent:
		m.abandoned++

	case events.PlanProgressEvent:
		m.total = msg.Total
		m.completed = msg.Completed
		m.queued = msg.Queued
		m.pending = msg.Pending
		m.clock = msg.Clock

	case events.WindowSearchedEvent:
		m.windows++
		w := msg
		m.lastWindow = &w

	case events.RunFinishedEvent:
		f := msg
		m.finished = &f
		m.clock = msg.EndClock
	}

	return m, nil
}

// Finished reports whether the run has ended.
func (m PlanPaneModel) Finished() bool {
	return m.finished != nil
}

// View renders the plan pane.
func (m PlanPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styleTitle.Render(fmt.Sprintf("Day plan (%s)", m.kind))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Clock:     %s\n", scheduler.FormatClock(m.clock))
	fmt.Fprintf(&b, "Total:     %d\n", m.total)
	fmt.Fprintf(&b, "Completed: %s\n", statusStyle(stateCompleted).Render(fmt.Sprint(m.completed)))
	fmt.Fprintf(&b, "Queued:    %s\n", statusStyle(stateRunning).Render(fmt.Sprint(m.queued)))
	fmt.Fprintf(&b, "Waiting:   %s\n", statusStyle(stateWaiting).Render(fmt.Sprint(m.pending)))
	if m.abandoned > 0 {
		fmt.Fprintf(&b, "Abandoned: %s\n", statusStyle(stateAbandoned).Render(fmt.Sprint(m.abandoned)))
	}
	if m.windows > 0 {
		fmt.Fprintf(&b, "Windows:   %d", m.windows)
		if w := m.lastWindow; w != nil {
			fmt.Fprintf(&b, " (last: %s, %d mins, utility %d)", scheduler.FormatClock(w.Clock), w.Budget, w.Utility)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.total > 0 {
		barWidth := max(min(m.width-16, 40), 0)
		completedWidth := (m.completed * barWidth) / m.total
		abandonedWidth := (m.abandoned * barWidth) / m.total
		queuedWidth := (m.queued * barWidth) / m.total
		pendingWidth := max(barWidth-completedWidth-abandonedWidth-queuedWidth, 0)

		bar := statusStyle(stateCompleted).Render(strings.Repeat("=", completedWidth))
		bar += statusStyle(stateAbandoned).Render(strings.Repeat("!", abandonedWidth))
		bar += statusStyle(stateRunning).Render(strings.Repeat("-", queuedWidth))
		bar += statusStyle(stateWaiting).Render(strings.Repeat(".", pendingWidth))

		fmt.Fprintf(&b, "[%s]  %d/%d\n", bar, m.completed, m.total)
	}

	if f := m.finished; f != nil {
		b.WriteString("\n")
		elapsed := f.EndClock - f.StartClock
		line := fmt.Sprintf("Finished: %d tasks in %dh%02dmin", f.Executed, elapsed/60, elapsed%60)
		if f.Abandoned > 0 {
			line += fmt.Sprintf(", %d abandoned", f.Abandoned)
		}
		b.WriteString(statusStyle(stateCompleted).Render(line))
		b.WriteString("\n")
	}

	return paneStyle(m.focused).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(b.String())
}

// SetSize updates the pane dimensions.
func (m *PlanPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *PlanPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
