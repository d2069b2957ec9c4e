package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"arena/config"
	"arena/provider"
)

// StartupStage says which step of start-up failed.
type StartupStage int

const (
	StageConfig StartupStage = iota
	StageUpstream
)

func (s StartupStage) Title() string {
	if s == StageConfig {
		return "Configuration Error"
	}
	return "Upstream Error"
}

// StartupHints suggests how to get the arena running again after err.
func StartupHints(stage StartupStage, err error, configPath string) []string {
	if configPath == "" {
		configPath = config.GetConfigFilePath()
	}
	configPath = config.ExpandPath(configPath)

	if stage == StageConfig {
		hints := []string{fmt.Sprintf("Fix %s", configPath)}
		if config.FileExists(configPath) {
			hints = append(hints, "Or move it aside and run `arena -init` to write a commented default")
		} else {
			hints = append(hints, "Run `arena -init` to write a commented default config")
		}
		return append(hints, fmt.Sprintf("%s and %s override the file", config.EnvUpstream, config.EnvModel))
	}

	if errors.Is(err, provider.ErrMissingCredential) {
		return []string{
			fmt.Sprintf("Set %s (or the provider's own key variable)", config.EnvAPIKey),
			fmt.Sprintf("Or set %s to go through a backend proxy", config.EnvProxyURL),
		}
	}
	return []string{
		fmt.Sprintf("Check kind and base_url under [upstream] in %s", configPath),
		"Known kinds: gemini, openai, openrouter, anthropic, ollama",
	}
}

// ErrorModal is a standalone program for start-up failures shown before the
// arena itself runs.
type ErrorModal struct {
	title   string
	message string
	hints   []string
	width   int
	height  int
}

func NewErrorModal(title, message string, hints ...string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
		hints:   hints,
	}
}

// NewStartupErrorModal shows err with the hints for stage.
func NewStartupErrorModal(stage StartupStage, err error, configPath string) ErrorModal {
	return NewErrorModal(stage.Title(), err.Error(), StartupHints(stage, err, configPath)...)
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + ": " + m.message
	}

	modalWidth := 70
	if m.width < modalWidth+4 {
		modalWidth = m.width - 4
	}
	inner := modalWidth - 4

	sections := []string{
		lipgloss.NewStyle().Bold(true).Foreground(dangerColor).Render(m.title),
		"",
		lipgloss.NewStyle().Width(inner).Render(m.message),
	}
	if len(m.hints) > 0 {
		sections = append(sections, "")
		hint := lipgloss.NewStyle().Width(inner).Foreground(accentColor)
		for _, h := range m.hints {
			sections = append(sections, hint.Render("→ "+h))
		}
	}
	sections = append(sections, "", DimStyle.Render("enter/esc: quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dangerColor).
		Padding(0, 1).
		Width(modalWidth).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
