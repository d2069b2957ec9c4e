package model

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// SubmitPrompt starts a cycle. Rejections come back in CycleStartedMsg.Err.
func (m *Model) SubmitPrompt(prompt string) tea.Cmd {
	arena := m.Arena
	return func() tea.Msg {
		c, err := arena.Submit(context.Background(), prompt)
		return CycleStartedMsg{Cycle: c, Err: err}
	}
}

// WaitForStateChange blocks on a subscription channel and reports the state
// that follows the signal. Re-issue it after each StateChangedMsg.
func WaitForStateChange(arena *Arena, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StateChangedMsg{
			Snapshot: arena.Snapshot(),
			InFlight: arena.InFlight(),
		}
	}
}

// CheckUpstream pings the backend once so the header can show reachability.
func (m *Model) CheckUpstream() tea.Cmd {
	backend := m.Backend
	return func() tea.Msg {
		if backend == nil {
			return UpstreamHealthMsg{Err: errors.New("no generation backend configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		err := backend.Ping(ctx)
		if err != nil {
			log.Warnf("upstream ping failed: %v", err)
		} else {
			log.Debugf("upstream ping ok (%s)", backend.Mode())
		}
		return UpstreamHealthMsg{Err: err}
	}
}

// FlashTick clears transient status messages after d.
func FlashTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}
