package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestConfirmationMode_EnterSubmits(t *testing.T) {
	m := New(Config{Title: "确认删除", Message: "确定吗？"})
	require.Equal(t, -1, m.FocusedInput())
	require.Equal(t, FieldSave, m.FocusedField())

	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, ok := cmd().(SubmitMsg)
	assert.True(t, ok)
}

func TestConfirmationMode_EscCancels(t *testing.T) {
	m := New(Config{Title: "确认删除"})

	m, cmd := m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	_, ok := cmd().(CancelMsg)
	assert.True(t, ok)
}

func TestConfirmationMode_CancelButton(t *testing.T) {
	m := New(Config{Title: "确认删除"})

	m, _ = m.Update(keyMsg("right"))
	require.Equal(t, FieldCancel, m.FocusedField())

	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, ok := cmd().(CancelMsg)
	assert.True(t, ok)
}

func TestInputMode_SubmitCollectsValues(t *testing.T) {
	m := New(Config{
		Title: "新增列",
		Inputs: []InputConfig{
			{Key: "label", Label: "列名称", Required: true},
		},
	})
	require.Equal(t, 0, m.FocusedInput())

	m = typeText(m, "钻孔深度")

	// enter on the input advances to the Save button
	m, _ = m.Update(keyMsg("enter"))
	require.Equal(t, -1, m.FocusedInput())
	require.Equal(t, FieldSave, m.FocusedField())

	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "钻孔深度", msg.Values["label"])
}

func TestInputMode_RequiredBlankRefusesSubmit(t *testing.T) {
	m := New(Config{
		Title: "新增列",
		Inputs: []InputConfig{
			{Key: "label", Label: "列名称", Required: true},
		},
	})

	m = typeText(m, "   ")
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestInputMode_OptionalBlankSubmits(t *testing.T) {
	m := New(Config{
		Title: "编辑记录",
		Inputs: []InputConfig{
			{Key: "name", Label: "项目名称", Required: true},
			{Key: "remark", Label: "备注"},
		},
	})

	m = typeText(m, "兰新铁路")
	m, _ = m.Update(keyMsg("enter")) // to remark
	m, _ = m.Update(keyMsg("enter")) // to Save
	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "兰新铁路", msg.Values["name"])
	assert.Equal(t, "", msg.Values["remark"])
}

func TestFocusCycling_TabWrapsThroughButtons(t *testing.T) {
	m := New(Config{
		Inputs: []InputConfig{
			{Key: "a", Label: "A"},
			{Key: "b", Label: "B"},
		},
	})

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, 1, m.FocusedInput())

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, -1, m.FocusedInput())
	assert.Equal(t, FieldSave, m.FocusedField())

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, FieldCancel, m.FocusedField())

	m, _ = m.Update(keyMsg("tab"))
	assert.Equal(t, 0, m.FocusedInput())
}

func TestFocusCycling_ShiftTabGoesBackwards(t *testing.T) {
	m := New(Config{
		Inputs: []InputConfig{
			{Key: "a", Label: "A"},
		},
	})

	m, _ = m.Update(keyMsg("shift+tab"))
	assert.Equal(t, -1, m.FocusedInput())
	assert.Equal(t, FieldCancel, m.FocusedField())
}

func TestView_ContainsTitleAndRequiredMarker(t *testing.T) {
	m := New(Config{
		Title: "新增记录",
		Inputs: []InputConfig{
			{Key: "name", Label: "项目名称", Required: true},
		},
	})

	out := m.View()
	assert.Contains(t, out, "新增记录")
	assert.Contains(t, out, "项目名称 *")
	assert.Contains(t, out, "Save")
	assert.Contains(t, out, "Cancel")
}

func TestView_ConfirmationModeShowsConfirm(t *testing.T) {
	m := New(Config{Title: "确认删除", Message: "确定要删除吗？"})

	out := m.View()
	assert.Contains(t, out, "Confirm")
	assert.Contains(t, out, "确定要删除吗？")
}

func TestMaxLengthLimitsInput(t *testing.T) {
	m := New(Config{
		Inputs: []InputConfig{
			{Key: "label", Label: "列名称", MaxLength: 4},
		},
	})

	m = typeText(m, "abcdefgh")
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg := cmd().(SubmitMsg)
	assert.Equal(t, "abcd", msg.Values["label"])
}
