package model

// StateChangedMsg carries a fresh copy of the card states.
type StateChangedMsg struct {
	Snapshot Snapshot
	InFlight bool
}

type CycleStartedMsg struct {
	Cycle *Cycle
	Err   error
}

type UpstreamHealthMsg struct {
	Err error
}

type MarkdownRenderedMsg struct {
	ModelID  string
	CycleID  string
	Rendered string
}

type ClipboardCopiedMsg struct {
	ModelID string
	Err     error
}

type FlashTickMsg struct{}
