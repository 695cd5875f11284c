// Package mode defines the mode controller interface and shared services.
package mode

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/engitrack/engitrack/internal/config"
	"github.com/engitrack/engitrack/internal/extract"
	"github.com/engitrack/engitrack/internal/keys"
	"github.com/engitrack/engitrack/internal/tracker"
)

// AppMode identifies the current application mode.
type AppMode int

const (
	ModeLogin AppMode = iota
	ModeBoard
)

// SwitchMsg requests a switch to another mode.
type SwitchMsg struct {
	Mode AppMode
}

// Switch returns a command that switches to the given mode.
func Switch(m AppMode) tea.Cmd {
	return func() tea.Msg { return SwitchMsg{Mode: m} }
}

// StoreChangedMsg signals that the store file was modified outside this
// process and in-memory state should be reloaded.
type StoreChangedMsg struct{}

// Controller defines the interface all modes must implement.
type Controller interface {
	// Init returns initial commands for the mode.
	Init() tea.Cmd

	// Update handles messages and returns updated model and commands.
	Update(msg tea.Msg) (Controller, tea.Cmd)

	// View renders the mode's UI.
	View() string

	// SetSize handles terminal resize events.
	SetSize(width, height int) Controller
}

// Services contains shared dependencies injected into mode controllers.
type Services struct {
	Tracker    *tracker.Tracker
	Config     *config.Config
	ConfigPath string
	StorePath  string
	Extractor  extract.Extractor
	Keys       keys.KeyMap
}
