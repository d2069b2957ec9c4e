package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	log "github.com/sirupsen/logrus"

	appmodel "arena/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	boldRegex       = regexp.MustCompile(`\*\*.*?\*\*`)
)

// renderInlineBold styles **text** spans and leaves everything else as is.
// Spans never cross a line break, so an unpaired marker stays literal.
func renderInlineBold(text string) string {
	bold := NameStyle.Inline(true)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = boldRegex.ReplaceAllStringFunc(line, func(span string) string {
			return bold.Render(span[2 : len(span)-2])
		})
	}
	return strings.Join(lines, "\n")
}

// renderMarkdown renders content as terminal markdown at width columns.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}

	// [text](url) becomes a bare url so terminals can detect it
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	// Autolink off keeps plain URLs plain
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	// Blue background inline code becomes red text
	out := inlineCodeRegex.ReplaceAllString(string(rendered), "\x1b[31m$1\x1b[0m")
	return strings.TrimRight(out, "\n")
}

func renderMarkdownAsync(modelID, cycleID, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		log.WithField("cycle_id", cycleID).Debugf("markdown for %s rendered in %v", modelID, time.Since(start))

		return appmodel.MarkdownRenderedMsg{
			ModelID:  modelID,
			CycleID:  cycleID,
			Rendered: rendered,
		}
	}
}
