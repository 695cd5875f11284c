// Package login implements the access-gate mode shown before the board.
package login

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/ui/styles"
)

const (
	fieldUsername = iota
	fieldPassword
)

// Model holds the login mode state.
type Model struct {
	services mode.Services

	username textinput.Model
	password textinput.Model
	focused  int
	errMsg   string

	width  int
	height int
}

// New creates a new login mode controller.
func New(services mode.Services) Model {
	username := textinput.New()
	username.Placeholder = "请输入您的姓名"
	username.CharLimit = 50
	username.Width = 30
	username.Prompt = ""
	username.Focus()

	password := textinput.New()
	password.Placeholder = "请输入访问密码"
	password.CharLimit = 100
	password.Width = 30
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		services: services,
		username: username,
		password: password,
		focused:  fieldUsername,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login mode.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m = m.toggleFocus()
			return m, nil

		case "enter":
			if m.focused == fieldUsername {
				m = m.toggleFocus()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == fieldUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focused == fieldUsername {
		m.focused = fieldPassword
		m.username.Blur()
		m.password.Focus()
	} else {
		m.focused = fieldUsername
		m.password.Blur()
		m.username.Focus()
	}
	return m
}

func (m Model) submit() (mode.Controller, tea.Cmd) {
	if err := m.services.Tracker.Login(m.username.Value(), m.password.Value()); err != nil {
		m.errMsg = err.Error()
		m.password.SetValue("")
		return m, nil
	}

	log.Info(log.CatSession, "user logged in", "username", m.services.Tracker.Session().Username)
	return m, mode.Switch(mode.ModeBoard)
}

// View renders the centered login panel.
func (m Model) View() string {
	title := styles.TitleStyle.Render("工程物探项目跟踪")
	subtitle := styles.SubtitleStyle.Render("请登录以继续")

	usernameSection := styles.RenderFormSection(
		[]string{m.username.View()}, "姓名", 34, m.focused == fieldUsername)
	passwordSection := styles.RenderFormSection(
		[]string{m.password.View()}, "访问密码", 34, m.focused == fieldPassword)

	parts := []string{title, subtitle, "", usernameSection, "", passwordSection}
	if m.errMsg != "" {
		parts = append(parts, "", styles.ErrorStyle.Render(m.errMsg))
	}
	parts = append(parts, "", styles.HelpStyle.Render("enter 登录 • tab 切换 • ctrl+c 退出"))

	panel := styles.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// SetSize handles terminal resize events.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	return m
}
