package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	appmodel "arena/model"
)

const (
	idlePlaceholder    = "Waiting for input..."
	loadingPlaceholder = "Thinking..."

	// border + horizontal padding
	cardFrameWidth  = 4
	cardFrameHeight = 2
	cardHeaderLines = 2
)

type cardOptions struct {
	// Outer size. Height 0 lets the card grow with its text.
	Width  int
	Height int

	Focused  bool
	Label    string
	Spinner  string
	Rendered string // pre-rendered markdown body, used when non-empty
}

// simulatedFootnote marks replies produced by role-play rather than the named model.
func simulatedFootnote(label string) string {
	if label == "" {
		label = "upstream"
	}
	return fmt.Sprintf("* Simulated response via %s API", label)
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func renderCard(d appmodel.ModelDescriptor, st appmodel.ResponseState, opts cardOptions) string {
	inner := opts.Width - cardFrameWidth
	if inner < 8 {
		inner = 8
	}

	header := renderCardHeader(d, st, inner)
	sub := DimStyle.Render(runewidth.Truncate(d.ProviderLabel, inner, "…"))

	var footnote string
	if st.Status == appmodel.StatusSuccess && !d.IsNative() {
		footnote = DimStyle.Italic(true).Width(inner).Render(simulatedFootnote(opts.Label))
	}

	body := renderCardBody(st, opts, inner)

	if opts.Height > 0 {
		room := opts.Height - cardFrameHeight - cardHeaderLines
		if footnote != "" {
			room -= lipgloss.Height(footnote)
		}
		body = clampLines(body, room)
	}

	parts := []string{header, sub, body}
	if footnote != "" {
		parts = append(parts, footnote)
	}
	content := strings.Join(parts, "\n")

	style := cardStyle(opts.Focused, st.Status == appmodel.StatusError).Width(inner + 2)
	if opts.Height > 0 {
		style = style.Height(opts.Height - cardFrameHeight)
	}
	return style.Render(content)
}

func renderCardHeader(d appmodel.ModelDescriptor, st appmodel.ResponseState, width int) string {
	badge := avatarStyle(d.AvatarColor).Render(d.Initials())

	var elapsed string
	if st.Status == appmodel.StatusSuccess {
		elapsed = TimeStyle.Render(formatElapsed(st.ExecutionTime))
	}

	room := width - lipgloss.Width(badge) - 1
	if elapsed != "" {
		room -= lipgloss.Width(elapsed) + 1
	}
	if room < 1 {
		room = 1
	}
	name := NameStyle.Render(runewidth.Truncate(d.DisplayName, room, "…"))

	left := badge + " " + name
	if elapsed == "" {
		return left
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(elapsed)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + elapsed
}

func renderCardBody(st appmodel.ResponseState, opts cardOptions, width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	switch st.Status {
	case appmodel.StatusLoading:
		return strings.TrimSpace(opts.Spinner + " " + DimStyle.Render(loadingPlaceholder))

	case appmodel.StatusError:
		text := st.Text
		if text == "" {
			text = appmodel.FailureText
		}
		out := wrap.Render(ErrorStyle.Render(text))
		if st.Detail != "" {
			out += "\n" + wrap.Render(DimStyle.Render(st.Detail))
		}
		return out

	case appmodel.StatusSuccess:
		if opts.Rendered != "" {
			return opts.Rendered
		}
		return wrap.Render(renderInlineBold(st.Text))

	default:
		return DimStyle.Render(idlePlaceholder)
	}
}

// clampLines keeps at most n lines, marking the cut with an ellipsis line.
func clampLines(s string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	lines = append(lines[:n-1], DimStyle.Render("… (ctrl+o to expand)"))
	return strings.Join(lines, "\n")
}
