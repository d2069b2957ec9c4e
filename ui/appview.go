package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"arena/config"
	appmodel "arena/model"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Latest copy of the card states
	snapshot appmodel.Snapshot
	inFlight bool
	prompt   string

	// Store subscription
	updates     <-chan struct{}
	unsubscribe func()

	// Grid
	columns int
	focused int
	zoomed  bool

	// Markdown bodies for the current cycle, keyed by model ID
	rendered      map[string]string
	renderPending map[string]bool

	// Fuzzy jump-to-card
	jumpMode    bool
	jumpInput   textinput.Model
	jumpMatches []int

	showHelp bool

	// Transient status line message
	flash      string
	flashIsErr bool
}

func NewAppView(m *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask every model at once... (ctrl+s to send)"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter inserts a newline, ctrl+s / alt+enter submit
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HighlightStyle

	jump := textinput.New()
	jump.Prompt = "Jump to: "
	jump.CharLimit = 64

	columns := m.Config.Client.GridColumns
	if columns != 1 && columns != 2 && columns != 4 {
		columns = config.DefaultGridColumns
	}

	updates, unsubscribe := m.Arena.Subscribe()

	return AppView{
		dataModel:     m,
		viewport:      viewport.New(0, 0),
		textarea:      ta,
		spinner:       sp,
		snapshot:      m.Arena.Snapshot(),
		updates:       updates,
		unsubscribe:   unsubscribe,
		columns:       columns,
		rendered:      make(map[string]string),
		renderPending: make(map[string]bool),
		jumpInput:     jump,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.CheckUpstream(),
		appmodel.WaitForStateChange(a.dataModel.Arena, a.updates),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Model Arena..."
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	return a.renderMain()
}

// Close releases the store subscription.
func (a AppView) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a AppView) markdownMode() bool {
	return a.dataModel.Config.Client.Render == config.RenderMarkdown
}
