package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/config"
	appmodel "arena/model"
	"arena/provider"
	"arena/provider/testutil"
)

func newTestView(t *testing.T, reply string, mutate func(*config.Config)) (AppView, *appmodel.Model) {
	t.Helper()
	return newTestViewWith(t, testutil.Replying(reply), mutate)
}

func newTestViewWith(t *testing.T, upstream provider.Upstream, mutate func(*config.Config)) (AppView, *appmodel.Model) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	client := provider.NewClient(provider.ClientOptions{
		Upstream: upstream,
		Label:    "Test",
	})
	m := appmodel.NewModel(cfg, testutil.TestRegistry(), client, "v0.0.0-test")

	av := NewAppView(m)
	t.Cleanup(av.Close)
	av = update(t, av, tea.WindowSizeMsg{Width: 200, Height: 40})
	return av, m
}

func update(t *testing.T, av AppView, msg tea.Msg) AppView {
	t.Helper()
	next, _ := av.Update(msg)
	out, ok := next.(AppView)
	require.True(t, ok)
	return out
}

func updateCmd(t *testing.T, av AppView, msg tea.Msg) (AppView, tea.Cmd) {
	t.Helper()
	next, cmd := av.Update(msg)
	out, ok := next.(AppView)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, av AppView, text string) AppView {
	t.Helper()
	return update(t, av, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestViewBeforeWindowSize(t *testing.T) {
	cfg := config.Default()
	m := appmodel.NewModel(cfg, testutil.TestRegistry(), nil, "dev")
	av := NewAppView(m)
	defer av.Close()

	assert.Equal(t, "Loading Model Arena...", av.View())
}

func TestInitialViewShowsIdleCards(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	view := av.View()
	assert.Contains(t, view, "Model Arena")
	assert.Contains(t, view, "mode: direct")
	assert.Contains(t, view, "Native Model")
	assert.Contains(t, view, "Persona Model")
	assert.Contains(t, view, idlePlaceholder)
	assert.Contains(t, view, "checking...")
}

// gatedUpstream answers reply once release is closed.
func gatedUpstream(reply string, release <-chan struct{}) *testutil.MockUpstream {
	mock := testutil.NewMockUpstream("mock-model")
	mock.GenerateFunc = func(ctx context.Context, req provider.Request) (string, error) {
		select {
		case <-release:
			return reply, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return mock
}

func TestSubmitRunsCycleAndRendersReplies(t *testing.T) {
	release := make(chan struct{})
	av, m := newTestViewWith(t, gatedUpstream("All hands on deck", release), nil)

	av = typeText(t, av, "hello arena")
	av, cmd := updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	started, ok := cmd().(appmodel.CycleStartedMsg)
	require.True(t, ok)
	require.NoError(t, started.Err)
	assert.Equal(t, "hello arena", started.Cycle.Prompt)

	av = update(t, av, started)
	assert.True(t, av.inFlight)
	assert.False(t, av.textarea.Focused())
	assert.Empty(t, av.textarea.Value(), "input clears once the cycle starts")

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, started.Cycle.Wait(ctx))

	av = update(t, av, appmodel.StateChangedMsg{
		Snapshot: m.Arena.Snapshot(),
		InFlight: m.Arena.InFlight(),
	})
	assert.False(t, av.inFlight)

	view := av.View()
	assert.Contains(t, view, "All hands on deck")
	assert.Contains(t, view, "* Simulated response via Test API")
	assert.Contains(t, view, "Last prompt: hello arena")
}

func TestCycleSettledBeforeStartMessage(t *testing.T) {
	av, m := newTestView(t, "Quick reply", nil)

	av = typeText(t, av, "fast one")
	av, cmd := updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	started, ok := cmd().(appmodel.CycleStartedMsg)
	require.True(t, ok)
	require.NoError(t, started.Err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, started.Cycle.Wait(ctx))

	// The subscription can deliver the settled state before the submit command returns
	av = update(t, av, appmodel.StateChangedMsg{
		Snapshot: m.Arena.Snapshot(),
		InFlight: m.Arena.InFlight(),
	})
	av = update(t, av, started)

	assert.False(t, av.inFlight)
	assert.True(t, av.textarea.Focused())
	assert.Empty(t, av.textarea.Value())
	assert.Contains(t, av.View(), "Quick reply")
	assert.Contains(t, av.View(), "Last prompt: fast one")

	av = typeText(t, av, "next")
	assert.Equal(t, "next", av.textarea.Value())
	av, cmd = updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.NotContains(t, av.View(), "Wait for every model to answer")
	next, ok := cmd().(appmodel.CycleStartedMsg)
	require.True(t, ok)
	require.NoError(t, next.Err)
	require.NoError(t, next.Cycle.Wait(ctx))
}

func TestSubmitEmptyPromptFlashes(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av, cmd := updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()

	started, ok := msg.(appmodel.CycleStartedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, started.Err, appmodel.ErrEmptyPrompt)

	av = update(t, av, started)
	assert.Contains(t, av.View(), "Type a prompt first")
	assert.False(t, av.inFlight)

	av = update(t, av, appmodel.FlashTickMsg{})
	assert.NotContains(t, av.View(), "Type a prompt first")
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	av, m := newTestView(t, "unused", nil)
	av.inFlight = true

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, av.View(), "Wait for every model to answer")
	assert.False(t, m.Arena.InFlight(), "no cycle is submitted while one runs")

	av = typeText(t, av, "ignored")
	assert.Empty(t, av.textarea.Value())
}

func TestFocusCycling(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)
	require.Equal(t, 0, av.focused)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, av.focused)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, av.focused, "focus wraps around")

	av = update(t, av, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, av.focused)
}

func TestGridToggle(t *testing.T) {
	av, _ := newTestView(t, "unused", func(cfg *config.Config) { cfg.Client.GridColumns = 2 })
	require.Equal(t, 2, av.columns)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Equal(t, 1, av.columns)
	assert.Equal(t, 200, av.cardWidth())

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Equal(t, 4, av.columns)
	assert.Equal(t, 50, av.cardWidth())

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.Equal(t, 2, av.columns)
}

func TestNextColumns(t *testing.T) {
	assert.Equal(t, 2, nextColumns(4))
	assert.Equal(t, 1, nextColumns(2))
	assert.Equal(t, 4, nextColumns(1))
	assert.Equal(t, 4, nextColumns(3))
}

func TestJumpToCard(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlF})
	require.True(t, av.jumpMode)

	av = typeText(t, av, "pers")
	require.NotEmpty(t, av.jumpMatches)
	assert.Equal(t, 1, av.jumpMatches[0])
	assert.Contains(t, av.View(), "Jump to:")

	av = update(t, av, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, av.jumpMode)
	assert.Equal(t, 1, av.focused)
	assert.Empty(t, av.textarea.Value(), "jump query never reaches the prompt")
}

func TestJumpCancel(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlF})
	av = typeText(t, av, "pers")
	av = update(t, av, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, av.jumpMode)
	assert.Equal(t, 0, av.focused)
}

func TestZoomShowsFocusedCard(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyTab})
	av = update(t, av, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, av.zoomed)

	view := av.View()
	assert.Contains(t, view, "Persona Model")
	assert.NotContains(t, view, "Native Model")

	av = update(t, av, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, av.zoomed)
	assert.Contains(t, av.View(), "Native Model")
}

func TestUpstreamHealth(t *testing.T) {
	av, m := newTestView(t, "unused", nil)

	av = update(t, av, appmodel.UpstreamHealthMsg{Err: errors.New("dial tcp: refused")})
	assert.True(t, m.UpstreamChecked)
	view := av.View()
	assert.Contains(t, view, "unreachable")
	assert.Contains(t, view, "dial tcp: refused")

	av = update(t, av, appmodel.UpstreamHealthMsg{})
	assert.Contains(t, av.View(), "ok")
	assert.NotContains(t, av.View(), "unreachable")
}

func TestCopyRequiresSettledCard(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av, cmd := updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	assert.Contains(t, av.View(), "Nothing to copy yet")
}

func TestClipboardResultFlash(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av = update(t, av, appmodel.ClipboardCopiedMsg{ModelID: "persona"})
	assert.Contains(t, av.View(), "Copied Persona Model response")

	av = update(t, av, appmodel.ClipboardCopiedMsg{ModelID: "persona", Err: errors.New("no display")})
	assert.Contains(t, av.View(), "Copy failed: no display")
}

func TestMarkdownModeRendersSettledCards(t *testing.T) {
	av, _ := newTestView(t, "unused", func(cfg *config.Config) { cfg.Client.Render = config.RenderMarkdown })

	av.snapshot = appmodel.Snapshot{
		CycleID: "cycle-1",
		Order:   []string{"native", "persona"},
		States: map[string]appmodel.ResponseState{
			"native":  {ModelID: "native", Status: appmodel.StatusSuccess, Text: "# Heading"},
			"persona": {ModelID: "persona", Status: appmodel.StatusLoading},
		},
	}

	cmds := av.requestMarkdown()
	require.Len(t, cmds, 1, "only settled successes are rendered")
	assert.Empty(t, av.requestMarkdown(), "pending renders are not repeated")

	msg, ok := cmds[0]().(appmodel.MarkdownRenderedMsg)
	require.True(t, ok)
	assert.Equal(t, "native", msg.ModelID)
	assert.Equal(t, "cycle-1", msg.CycleID)

	av = update(t, av, msg)
	assert.Contains(t, av.rendered["native"], "Heading")

	// Renders for an older cycle are dropped
	stale := appmodel.MarkdownRenderedMsg{ModelID: "persona", CycleID: "cycle-0", Rendered: "old"}
	av = update(t, av, stale)
	_, has := av.rendered["persona"]
	assert.False(t, has)
}

func TestStateChangeResetsRendersOnNewCycle(t *testing.T) {
	av, _ := newTestView(t, "unused", func(cfg *config.Config) { cfg.Client.Render = config.RenderMarkdown })
	av.snapshot = appmodel.Snapshot{CycleID: "old"}
	av.rendered["native"] = "stale body"

	av = update(t, av, appmodel.StateChangedMsg{
		Snapshot: appmodel.Snapshot{
			CycleID: "new",
			Order:   []string{"native", "persona"},
			States: map[string]appmodel.ResponseState{
				"native":  {ModelID: "native", Status: appmodel.StatusLoading},
				"persona": {ModelID: "persona", Status: appmodel.StatusLoading},
			},
		},
		InFlight: true,
	})

	assert.Empty(t, av.rendered)
	assert.True(t, av.inFlight)
	assert.Contains(t, av.View(), "2 of 2 models still thinking")
}

func TestHelpToggle(t *testing.T) {
	av, _ := newTestView(t, "unused", nil)

	av = update(t, av, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h"), Alt: true})
	require.True(t, av.showHelp)
	assert.Contains(t, av.View(), "Keyboard Shortcuts")

	av = update(t, av, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, av.showHelp)
}

func TestQuit(t *testing.T) {
	av, m := newTestView(t, "unused", nil)

	_, cmd := updateCmd(t, av, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
