package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
	frameColor     = lipgloss.Color("8")

	// Model names in card headers
	NameStyle = lipgloss.NewStyle().
			Bold(true)

	// Reply text
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)
	// NO .Background() = transparent!

	// Footnotes, timestamps, error details
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(successColor)

	TimeStyle = lipgloss.NewStyle().
			Foreground(successColor)
)

// cardStyle returns the frame for a card. Focus wins over status colouring
// except for errors, which always keep the red border.
func cardStyle(focused, failed bool) lipgloss.Style {
	border := frameColor
	switch {
	case failed:
		border = dangerColor
	case focused:
		border = warningColor
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// avatarStyle paints the two-letter badge with the model's brand colour.
func avatarStyle(hex string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if hex == "" {
		return style.Reverse(true)
	}
	return style.
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color("15"))
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in assistant blue+bold.
// Usage: FormatFooter("tab", "Focus", "ctrl+s", "Send", "ctrl+c", "Quit")
// Result: "tab Focus  ctrl+s Send  ctrl+c Quit" (with descriptions in assistant blue+bold)
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true) // Assistant blue
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
