package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// TestApp_LoginToBoardFlow drives the full program: login with the shared
// password, land on the board, and quit.
func TestApp_LoginToBoardFlow(t *testing.T) {
	m := createTestModel(t, false)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("访问密码"))
	}, teatest.WithDuration(3*time.Second))

	tm.Type("王工")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("crdcwutan")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("工程物探项目跟踪"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestApp_WrongPasswordStaysOnLogin(t *testing.T) {
	m := createTestModel(t, false)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Type("王工")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("wrong")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("访问密码错误"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
