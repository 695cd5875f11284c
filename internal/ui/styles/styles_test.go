package styles

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// TestMain forces a fixed color profile so rendered output is deterministic
// regardless of the terminal running the tests.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	os.Exit(m.Run())
}

func TestRenderFormSection_LabelInTopBorder(t *testing.T) {
	out := RenderFormSection([]string{"内容"}, "姓名", 20, false)

	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "姓名")
	assert.Contains(t, out, "内容")
}

func TestRenderFormSection_MultipleLines(t *testing.T) {
	out := RenderFormSection([]string{"第一行", "第二行"}, "备注", 30, false)

	assert.Contains(t, out, "第一行")
	assert.Contains(t, out, "第二行")
}

func TestRenderFormSection_FocusChangesBorderColor(t *testing.T) {
	blurred := RenderFormSection([]string{"x"}, "字段", 20, false)
	focused := RenderFormSection([]string{"x"}, "字段", 20, true)

	assert.NotEqual(t, blurred, focused)
}
