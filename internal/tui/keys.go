package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding the viewer reacts to. It satisfies help.KeyMap.
type keyMap struct {
	NextPane key.Binding
	PrevPane key.Binding
	Tasks    key.Binding
	Plan     key.Binding
	Down     key.Binding
	Up       key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle focus")),
	PrevPane: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "back")),
	Tasks:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tasks")),
	Plan:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "plan")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next task")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous task")),
	Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Tasks, k.Plan, k.Down, k.Up, k.Scroll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Tasks, k.Plan},
		{k.Down, k.Up, k.Scroll, k.Quit},
	}
}

// HelpView returns a one-line help bar with the viewer's keybindings.
func HelpView(width int) string {
	h := help.New()
	h.Width = width
	h.Styles.ShortKey = styleHelpKey
	h.Styles.ShortDesc = styleHelp
	h.Styles.ShortSeparator = styleHelp
	return h.View(keys)
}
