package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette, as ANSI 256 color indexes.
const (
	colorAccent = lipgloss.Color("62")
	colorMuted  = lipgloss.Color("240")
	colorFaint  = lipgloss.Color("241")
	colorBlack  = lipgloss.Color("0")
)

// statusColors maps a task display state to its color. Waiting tasks are muted.
var statusColors = map[string]lipgloss.Color{
	stateRunning:   lipgloss.Color("11"),
	stateCompleted: lipgloss.Color("10"),
	stateAbandoned: lipgloss.Color("9"),
	stateWaiting:   colorMuted,
}

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSelected = lipgloss.NewStyle().Background(colorAccent).Foreground(colorBlack)
	styleHelp     = lipgloss.NewStyle().Foreground(colorFaint)
	styleHelpKey  = lipgloss.NewStyle().Foreground(colorAccent)
)

// paneStyle is the rounded border around a pane; the focused pane is highlighted.
func paneStyle(focused bool) lipgloss.Style {
	border := colorMuted
	if focused {
		border = colorAccent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// statusStyle renders text in the color of a task state. Only waiting tasks
// are drawn without bold.
func statusStyle(state string) lipgloss.Style {
	c, ok := statusColors[state]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Bold(state != stateWaiting)
}
