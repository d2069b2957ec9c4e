package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Model Arena - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	prompting := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Prompt"),
		fmt.Sprintf("• %-13s Send to every model", "ctrl+s"),
		fmt.Sprintf("• %-13s Send (alternative)", "alt+enter"),
		fmt.Sprintf("• %-13s New line", "enter"),
		fmt.Sprintf("• %-13s Quit", "ctrl+c"),
	)

	cards := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Cards"),
		fmt.Sprintf("• %-13s Next card", "tab"),
		fmt.Sprintf("• %-13s Previous card", "shift+tab"),
		fmt.Sprintf("• %-13s Jump by name", "ctrl+f"),
		fmt.Sprintf("• %-13s Expand focused card", "ctrl+o"),
		fmt.Sprintf("• %-13s Copy focused reply", "ctrl+y"),
		fmt.Sprintf("• %-13s Cards per row 4/2/1", "ctrl+g"),
		fmt.Sprintf("• %-13s Scroll", "pgup/pgdn"),
	)

	label := a.dataModel.UpstreamLabel()
	if label == "" {
		label = "the configured upstream"
	}
	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Tips"),
		"• Input is locked until every card settles",
		"• Cards marked * are role-played by",
		"  "+label,
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		prompting,
		"",
		tips,
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(cards),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("Press alt+h or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
