// Package styles centralizes colors and lipgloss styles for the UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	PrimaryColor   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#54A0FF"}
	AccentColor    = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	SubtleColor    = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	ErrorColor     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FF8787"}
	SuccessColor   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#73F59F"}
	WarnColor      = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}
	HighlightColor = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}
)

// Toast border colors.
var (
	ToastBorderSuccessColor = SuccessColor
	ToastBorderErrorColor   = ErrorColor
	ToastBorderInfoColor    = PrimaryColor
	ToastBorderWarnColor    = WarnColor
)

// Shared styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(PrimaryColor)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(AccentColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(HighlightColor)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// Button styles for modal dialogs.
var (
	PrimaryButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#1E3A8A"))

	PrimaryButtonFocusedStyle = PrimaryButtonStyle.
					Background(lipgloss.Color("#2563EB")).
					Bold(true)

	DangerButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#7F1D1D"))

	DangerButtonFocusedStyle = DangerButtonStyle.
					Background(lipgloss.Color("#DC2626")).
					Bold(true)

	SecondaryButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(lipgloss.Color("#CBD5E1")).
				Background(lipgloss.Color("#1F2937"))

	SecondaryButtonFocusedStyle = SecondaryButtonStyle.
					Background(lipgloss.Color("#4B5563")).
					Bold(true)
)

// RenderFormSection wraps content lines in a bordered section with a label
// in the top border. Focused sections use the highlight color.
func RenderFormSection(lines []string, label string, width int, focused bool) string {
	borderColor := SubtleColor
	if focused {
		borderColor = PrimaryColor
	}

	section := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)

	title := lipgloss.NewStyle().Foreground(borderColor).Render(" " + label + " ")
	body := section.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	// Stitch the label into the top border
	rendered := []rune(body)
	out := make([]rune, 0, len(rendered))
	labelRunes := []rune(title)
	inserted := false
	for i := 0; i < len(rendered); i++ {
		if !inserted && i > 1 && rendered[i] == '─' {
			out = append(out, labelRunes...)
			// Skip border cells covered by the label
			skip := lipgloss.Width(title)
			for skip > 0 && i < len(rendered) && rendered[i] == '─' {
				i++
				skip--
			}
			i--
			inserted = true
			continue
		}
		out = append(out, rendered[i])
	}
	return string(out)
}
