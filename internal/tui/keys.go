package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Focus      key.Binding
	Select     key.Binding
	Clear      key.Binding
	Intent     key.Binding
	Horizon    key.Binding
	Checkpoint key.Binding
	Refresh    key.Binding
	Back       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Focus, k.Intent, k.Checkpoint, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Select, k.Back},
		{k.Focus, k.Clear, k.Intent, k.Horizon, k.Checkpoint},
		{k.Refresh, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle item"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "pick focus"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Clear: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear focus"),
		),
		Intent: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "edit intent"),
		),
		Horizon: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "edit horizon"),
		),
		Checkpoint: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checkpoint"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}
