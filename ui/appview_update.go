package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	appmodel "arena/model"
)

const flashDuration = 3 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		cmds := a.invalidateMarkdown()
		a.refreshGrid()
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case appmodel.StateChangedMsg:
		return a.handleStateChanged(msg)

	case appmodel.CycleStartedMsg:
		if msg.Err != nil {
			cmd := a.setFlash(describeSubmitError(msg.Err), true)
			return a, cmd
		}
		log.WithField("cycle_id", msg.Cycle.ID).Debugf("cycle submitted (%d chars)", len(msg.Cycle.Prompt))
		a.prompt = msg.Cycle.Prompt
		a.textarea.Reset()
		select {
		case <-msg.Cycle.Done():
			// The settled StateChangedMsg already arrived and released the view
			return a, nil
		default:
		}
		a.textarea.Blur()
		if a.inFlight {
			return a, nil
		}
		a.inFlight = true
		return a, a.spinner.Tick

	case spinner.TickMsg:
		if !a.inFlight {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refreshGrid()
		return a, cmd

	case appmodel.UpstreamHealthMsg:
		a.dataModel.UpstreamChecked = true
		a.dataModel.UpstreamErr = msg.Err
		return a, nil

	case appmodel.MarkdownRenderedMsg:
		if msg.CycleID != a.snapshot.CycleID {
			return a, nil
		}
		delete(a.renderPending, msg.ModelID)
		a.rendered[msg.ModelID] = msg.Rendered
		a.refreshGrid()
		return a, nil

	case appmodel.ClipboardCopiedMsg:
		if msg.Err != nil {
			log.Warnf("clipboard copy failed: %v", msg.Err)
			cmd := a.setFlash("Copy failed: "+msg.Err.Error(), true)
			return a, cmd
		}
		name := msg.ModelID
		if d, ok := a.dataModel.Registry.Lookup(msg.ModelID); ok {
			name = d.DisplayName
		}
		cmd := a.setFlash(fmt.Sprintf("Copied %s response", name), false)
		return a, cmd

	case appmodel.FlashTickMsg:
		a.flash = ""
		a.flashIsErr = false
		return a, nil
	}

	var cmd tea.Cmd
	switch {
	case a.jumpMode:
		a.jumpInput, cmd = a.jumpInput.Update(msg)
	case !a.inFlight:
		a.textarea, cmd = a.textarea.Update(msg)
	}
	return a, cmd
}

func (a AppView) handleStateChanged(msg appmodel.StateChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{appmodel.WaitForStateChange(a.dataModel.Arena, a.updates)}

	if msg.Snapshot.CycleID != a.snapshot.CycleID {
		a.rendered = make(map[string]string)
		a.renderPending = make(map[string]bool)
	}
	a.snapshot = msg.Snapshot

	switch {
	case msg.InFlight && !a.inFlight:
		a.inFlight = true
		a.textarea.Blur()
		cmds = append(cmds, a.spinner.Tick)
	case !msg.InFlight && a.inFlight:
		a.inFlight = false
		if !a.jumpMode {
			a.textarea.Focus()
		}
		log.WithField("cycle_id", msg.Snapshot.CycleID).Debug("cycle settled")
	}

	cmds = append(cmds, a.requestMarkdown()...)
	a.refreshGrid()
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.dataModel.Quitting = true
		a.Close()
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.jumpMode {
		return a.handleJumpKey(msg)
	}

	if a.zoomed {
		switch msg.String() {
		case "esc", "ctrl+o":
			a.zoomed = false
			a.refreshGrid()
			return a, nil
		case "ctrl+y":
			cmd := a.copyFocused()
			return a, cmd
		case "tab", "shift+tab":
			a.moveFocus(msg.String() == "tab")
			a.refreshGrid()
			a.viewport.GotoTop()
			return a, nil
		}
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "alt+h":
		a.showHelp = true
		return a, nil

	case "ctrl+s", "alt+enter":
		if a.inFlight {
			cmd := a.setFlash("Wait for every model to answer", true)
			return a, cmd
		}
		return a, a.dataModel.SubmitPrompt(a.textarea.Value())

	case "tab", "shift+tab":
		a.moveFocus(msg.String() == "tab")
		a.refreshGrid()
		a.ensureFocusVisible()
		return a, nil

	case "ctrl+g":
		a.columns = nextColumns(a.columns)
		a.layout()
		cmds := a.invalidateMarkdown()
		a.refreshGrid()
		a.ensureFocusVisible()
		return a, tea.Batch(cmds...)

	case "ctrl+f":
		a.jumpMode = true
		a.jumpInput.SetValue("")
		a.jumpMatches = nil
		a.textarea.Blur()
		cmd := a.jumpInput.Focus()
		return a, cmd

	case "ctrl+y":
		cmd := a.copyFocused()
		return a, cmd

	case "ctrl+o":
		a.zoomed = true
		a.refreshGrid()
		a.viewport.GotoTop()
		return a, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	if a.inFlight {
		return a, nil
	}
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.exitJump()
		return a, nil
	case "enter":
		if len(a.jumpMatches) > 0 {
			a.focused = a.jumpMatches[0]
		}
		a.exitJump()
		a.refreshGrid()
		a.ensureFocusVisible()
		return a, nil
	}

	var cmd tea.Cmd
	a.jumpInput, cmd = a.jumpInput.Update(msg)
	a.jumpMatches = a.dataModel.Registry.Find(a.jumpInput.Value())
	return a, cmd
}

func (a *AppView) exitJump() {
	a.jumpMode = false
	a.jumpInput.Blur()
	if !a.inFlight {
		a.textarea.Focus()
	}
}

func (a *AppView) moveFocus(forward bool) {
	n := a.dataModel.Registry.Len()
	if n == 0 {
		return
	}
	if forward {
		a.focused = (a.focused + 1) % n
	} else {
		a.focused = (a.focused - 1 + n) % n
	}
}

// nextColumns cycles the grid through 4, 2 and 1 cards per row.
func nextColumns(current int) int {
	switch current {
	case 4:
		return 2
	case 2:
		return 1
	default:
		return 4
	}
}

func (a *AppView) focusedModel() (appmodel.ModelDescriptor, appmodel.ResponseState) {
	models := a.dataModel.Registry.Models()
	d := models[a.focused%len(models)]
	return d, a.snapshot.State(d.ID)
}

func (a *AppView) copyFocused() tea.Cmd {
	d, st := a.focusedModel()
	if !st.Status.Terminal() || st.Text == "" {
		return a.setFlash("Nothing to copy yet", true)
	}
	return copyToClipboard(d.ID, st.Text)
}

func copyToClipboard(modelID, text string) tea.Cmd {
	return func() tea.Msg {
		return appmodel.ClipboardCopiedMsg{ModelID: modelID, Err: clipboard.WriteAll(text)}
	}
}

func (a *AppView) setFlash(text string, isErr bool) tea.Cmd {
	a.flash = text
	a.flashIsErr = isErr
	return appmodel.FlashTick(flashDuration)
}

// requestMarkdown starts a render for every successful card that has none yet.
func (a *AppView) requestMarkdown() []tea.Cmd {
	if !a.markdownMode() || !a.ready {
		return nil
	}
	width := a.cardWidth() - cardFrameWidth
	var cmds []tea.Cmd
	for _, id := range a.snapshot.Order {
		st := a.snapshot.State(id)
		if st.Status != appmodel.StatusSuccess {
			continue
		}
		if _, done := a.rendered[id]; done || a.renderPending[id] {
			continue
		}
		a.renderPending[id] = true
		cmds = append(cmds, renderMarkdownAsync(id, a.snapshot.CycleID, st.Text, width))
	}
	return cmds
}

// invalidateMarkdown drops renders made for another card width and queues new ones.
func (a *AppView) invalidateMarkdown() []tea.Cmd {
	if !a.markdownMode() {
		return nil
	}
	a.rendered = make(map[string]string)
	a.renderPending = make(map[string]bool)
	return a.requestMarkdown()
}

func describeSubmitError(err error) string {
	switch {
	case errors.Is(err, appmodel.ErrEmptyPrompt):
		return "Type a prompt first"
	case errors.Is(err, appmodel.ErrCycleInFlight):
		return "Wait for every model to answer"
	default:
		return err.Error()
	}
}
