package app

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engitrack/engitrack/internal/config"
	"github.com/engitrack/engitrack/internal/keys"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/storage"
	"github.com/engitrack/engitrack/internal/tracker"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func createTestModel(t *testing.T, loggedIn bool) Model {
	t.Helper()

	trk := tracker.New(storage.NewMemory(), "crdcwutan")
	require.NoError(t, trk.Load())
	if loggedIn {
		require.NoError(t, trk.Login("王工", "crdcwutan"))
	}

	cfg := config.Defaults()
	cfg.AutoRefresh = false
	return New(mode.Services{
		Tracker: trk,
		Config:  &cfg,
		Keys:    keys.DefaultKeyMap(),
	})
}

func TestApp_StartsOnLoginWhenLoggedOut(t *testing.T) {
	m := createTestModel(t, false)
	assert.Equal(t, mode.ModeLogin, m.currentMode)
}

func TestApp_StartsOnBoardWithPersistedSession(t *testing.T) {
	m := createTestModel(t, true)
	assert.Equal(t, mode.ModeBoard, m.currentMode)
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, false)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = newModel.(Model)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 50, m.height)
}

func TestApp_SwitchMsgChangesMode(t *testing.T) {
	m := createTestModel(t, false)

	newModel, cmd := m.Update(mode.SwitchMsg{Mode: mode.ModeBoard})
	m = newModel.(Model)

	assert.Equal(t, mode.ModeBoard, m.currentMode)
	assert.NotNil(t, cmd)

	newModel, _ = m.Update(mode.SwitchMsg{Mode: mode.ModeLogin})
	m = newModel.(Model)
	assert.Equal(t, mode.ModeLogin, m.currentMode)
}

func TestApp_ViewDelegatesToActiveMode(t *testing.T) {
	m := createTestModel(t, false)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = newModel.(Model)

	assert.Contains(t, m.View(), "访问密码")
}

func TestApp_CloseWithoutWatcher(t *testing.T) {
	m := createTestModel(t, false)
	assert.NoError(t, m.Close())
}
