package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	headerLines   = 1
	statusLines   = 1
	inputLines    = 3
	footerLines   = 1
	minCardHeight = 8
)

// layout sizes the grid viewport and input from the window.
func (a *AppView) layout() {
	gridHeight := a.height - headerLines - statusLines - inputLines - footerLines
	if gridHeight < minCardHeight {
		gridHeight = minCardHeight
	}
	a.viewport.Width = a.width
	a.viewport.Height = gridHeight
	a.textarea.SetWidth(a.width)
	a.jumpInput.Width = a.width - lipgloss.Width(a.jumpInput.Prompt) - 1
}

func (a AppView) rows() int {
	n := a.dataModel.Registry.Len()
	return (n + a.columns - 1) / a.columns
}

func (a AppView) cardWidth() int {
	if a.columns <= 0 {
		return a.width
	}
	return a.width / a.columns
}

// cardHeight shares the grid viewport between rows, scrolling once cards
// would get shorter than minCardHeight.
func (a AppView) cardHeight() int {
	rows := a.rows()
	if rows == 0 {
		return minCardHeight
	}
	h := a.viewport.Height / rows
	if h < minCardHeight {
		h = minCardHeight
	}
	return h
}

func (a *AppView) refreshGrid() {
	if !a.ready {
		return
	}
	if a.zoomed {
		d, st := a.focusedModel()
		a.viewport.SetContent(renderCard(d, st, cardOptions{
			Width:    a.width,
			Focused:  true,
			Label:    a.dataModel.UpstreamLabel(),
			Spinner:  a.spinner.View(),
			Rendered: a.rendered[d.ID],
		}))
		return
	}
	a.viewport.SetContent(a.renderGrid())
}

func (a AppView) renderGrid() string {
	models := a.dataModel.Registry.Models()
	width, height := a.cardWidth(), a.cardHeight()
	label := a.dataModel.UpstreamLabel()
	spin := a.spinner.View()

	var rows []string
	for start := 0; start < len(models); start += a.columns {
		end := start + a.columns
		if end > len(models) {
			end = len(models)
		}
		var cards []string
		for i := start; i < end; i++ {
			d := models[i]
			cards = append(cards, renderCard(d, a.snapshot.State(d.ID), cardOptions{
				Width:    width,
				Height:   height,
				Focused:  i == a.focused,
				Label:    label,
				Spinner:  spin,
				Rendered: a.rendered[d.ID],
			}))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ensureFocusVisible scrolls the grid so the focused card's row is on screen.
func (a *AppView) ensureFocusVisible() {
	if a.zoomed || a.columns <= 0 {
		return
	}
	h := a.cardHeight()
	top := (a.focused / a.columns) * h
	switch {
	case top < a.viewport.YOffset:
		a.viewport.SetYOffset(top)
	case top+h > a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(top + h - a.viewport.Height)
	}
}

func (a AppView) renderMain() string {
	sections := []string{
		a.renderHeader(),
		a.viewport.View(),
		a.renderStatusLine(),
		a.renderInput(),
		a.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (a AppView) renderHeader() string {
	title := TitleStyle.Render("Model Arena")
	if v := a.dataModel.Version; v != "" {
		title += " " + DimStyle.Render(v)
	}

	mode := StatusStyle.Render("mode: ") + a.dataModel.Mode()

	upstream := a.dataModel.UpstreamLabel()
	if upstream == "" {
		upstream = "none"
	}
	var health string
	switch {
	case !a.dataModel.UpstreamChecked:
		health = DimStyle.Render("checking...")
	case a.dataModel.UpstreamErr != nil:
		health = ErrorStyle.Render("unreachable")
	default:
		health = OKStyle.Render("ok")
	}

	line := fmt.Sprintf("%s  %s  %s %s %s", title, mode, StatusStyle.Render("upstream:"), upstream, health)
	return lipgloss.NewStyle().MaxWidth(a.width).Render(line)
}

func (a AppView) renderStatusLine() string {
	var line string
	switch {
	case a.flash != "" && a.flashIsErr:
		line = ErrorStyle.Render(a.flash)
	case a.flash != "":
		line = OKStyle.Render(a.flash)
	case a.inFlight:
		line = fmt.Sprintf("%s %d of %d models still thinking", a.spinner.View(), a.snapshot.Pending(), len(a.snapshot.Order))
	case a.prompt != "":
		first := strings.SplitN(a.prompt, "\n", 2)[0]
		line = DimStyle.Render("Last prompt: " + runewidth.Truncate(first, a.width-14, "…"))
	default:
		line = DimStyle.Render("Type a prompt below and every model answers side by side")
	}

	if a.dataModel.UpstreamChecked && a.dataModel.UpstreamErr != nil && a.flash == "" && !a.inFlight {
		line = ErrorStyle.Render("Upstream check failed: ") + DimStyle.Render(a.dataModel.UpstreamErr.Error())
	}
	return lipgloss.NewStyle().MaxWidth(a.width).Render(line)
}

func (a AppView) renderInput() string {
	if !a.jumpMode {
		return a.textarea.View()
	}

	models := a.dataModel.Registry.Models()
	var names []string
	for i, idx := range a.jumpMatches {
		name := models[idx].DisplayName
		if i == 0 {
			name = SelectedStyle.Render(name)
		}
		names = append(names, name)
	}
	matches := DimStyle.Render("no matches")
	if len(names) > 0 {
		matches = strings.Join(names, DimStyle.Render(" · "))
	}

	lines := []string{
		a.jumpInput.View(),
		lipgloss.NewStyle().MaxWidth(a.width).Render(matches),
		"",
	}
	return strings.Join(lines, "\n")
}

func (a AppView) renderFooter() string {
	var footer string
	switch {
	case a.jumpMode:
		footer = FormatFooter("enter", "Jump", "esc", "Cancel")
	case a.zoomed:
		footer = FormatFooter("pgup/pgdn", "Scroll", "tab", "Next", "ctrl+y", "Copy", "esc", "Back")
	default:
		footer = FormatFooter(
			"ctrl+s", "Send",
			"tab", "Focus",
			"ctrl+f", "Jump",
			"ctrl+o", "Expand",
			"ctrl+y", "Copy",
			"ctrl+g", fmt.Sprintf("Grid (%d)", a.columns),
			"alt+h", "Help",
			"ctrl+c", "Quit",
		)
	}
	return lipgloss.NewStyle().MaxWidth(a.width).Render(footer)
}
