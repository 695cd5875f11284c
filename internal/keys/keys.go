// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the board.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Record actions
	Enter   key.Binding
	New     key.Binding
	Delete  key.Binding
	Extract key.Binding

	// Table actions
	AddColumn    key.Binding
	DeleteColumn key.Binding
	Export       key.Binding
	Refresh      key.Binding
	ToggleStats  key.Binding
	StatsFields  key.Binding

	// General
	Logout key.Binding
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next column"),
		),

		// Record actions
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit record"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new record"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete record"),
		),
		Extract: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "AI extract"),
		),

		// Table actions
		AddColumn: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add column"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "remove column"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export CSV"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleStats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle stats"),
		),
		StatsFields: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats fields"),
		),

		// General
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "log out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},                        // Navigation
		{k.Enter, k.New, k.Delete, k.Extract},                  // Records
		{k.AddColumn, k.DeleteColumn, k.Export, k.ToggleStats, k.StatsFields}, // Table
		{k.Refresh, k.Logout, k.Help, k.Escape, k.Quit},        // General
	}
}
