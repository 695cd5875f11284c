// Package app contains the root application model.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/mode/board"
	"github.com/engitrack/engitrack/internal/mode/login"
	"github.com/engitrack/engitrack/internal/watcher"
)

// Model is the root application state. It owns mode switching and the
// store-file watcher; everything else lives in the mode controllers.
type Model struct {
	currentMode mode.AppMode
	login       mode.Controller
	board       mode.Controller

	services mode.Services

	width  int
	height int

	watcherHandle *watcher.Watcher
	onChange      <-chan struct{}
}

// New creates the root model. When the persisted session is still logged in
// the app opens directly on the board.
func New(services mode.Services) Model {
	m := Model{
		services: services,
		login:    login.New(services),
		board:    board.New(services),
	}

	if services.Tracker.Session().IsLoggedIn {
		m.currentMode = mode.ModeBoard
	} else {
		m.currentMode = mode.ModeLogin
	}

	if services.Config.AutoRefresh && services.StorePath != "" {
		w, err := watcher.New(watcher.DefaultConfig(services.StorePath))
		if err == nil {
			if ch, err := w.Start(); err == nil {
				m.watcherHandle = w
				m.onChange = ch
			} else {
				_ = w.Stop()
			}
		}
		// The app works fine without auto-refresh, so watcher init
		// errors are not fatal.
		if m.watcherHandle == nil {
			log.Warn(log.CatWatcher, "auto-refresh disabled", "path", services.StorePath)
		}
	}

	return m
}

// listenWatcher waits for the next debounced store-file change.
func listenWatcher(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return mode.StoreChangedMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.active().Init()}
	if m.onChange != nil {
		cmds = append(cmds, listenWatcher(m.onChange))
	}
	return tea.Batch(cmds...)
}

func (m Model) active() mode.Controller {
	if m.currentMode == mode.ModeBoard {
		return m.board
	}
	return m.login
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login = m.login.SetSize(msg.Width, msg.Height)
		m.board = m.board.SetSize(msg.Width, msg.Height)
		return m, nil

	case mode.SwitchMsg:
		return m.switchMode(msg.Mode)

	case mode.StoreChangedMsg:
		// Board handles the reload; re-arm the watcher either way
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, tea.Batch(cmd, listenWatcher(m.onChange))
	}

	switch m.currentMode {
	case mode.ModeBoard:
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
}

// switchMode swaps the active mode, rebuilding the incoming controller so it
// starts from fresh state.
func (m Model) switchMode(target mode.AppMode) (tea.Model, tea.Cmd) {
	switch target {
	case mode.ModeBoard:
		log.Info(log.CatUI, "switching mode", "from", "login", "to", "board")
		m.currentMode = mode.ModeBoard
		m.board = board.New(m.services).SetSize(m.width, m.height)
		return m, m.board.Init()

	case mode.ModeLogin:
		log.Info(log.CatUI, "switching mode", "from", "board", "to", "login")
		m.currentMode = mode.ModeLogin
		m.login = login.New(m.services).SetSize(m.width, m.height)
		return m, m.login.Init()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.active().View()
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
