package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Filters
	NextAccount   key.Binding
	PrevAccount   key.Binding
	NextDirection key.Binding

	// Actions
	Describe key.Binding
	Save     key.Binding
	Cancel   key.Binding
	Refresh  key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		NextAccount: key.NewBinding(
			key.WithKeys("a", "tab"),
			key.WithHelp("a", "next account"),
		),
		PrevAccount: key.NewBinding(
			key.WithKeys("A", "shift+tab"),
			key.WithHelp("A", "previous account"),
		),
		NextDirection: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "all/credits/debits"),
		),
		Describe: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit description"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextAccount, k.NextDirection, k.Describe, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NextAccount, k.PrevAccount, k.NextDirection},
		{k.Describe, k.Refresh, k.Help, k.Quit},
	}
}
