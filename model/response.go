package model

import "time"

// Status is a card's position in the per-cycle state machine:
// Idle -> Loading -> Success | Error.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible in this cycle.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// ResponseState is one card's state for the current cycle.
type ResponseState struct {
	ModelID string
	Text    string
	Status  Status

	// ExecutionTime is meaningful only when Status is StatusSuccess.
	ExecutionTime time.Duration

	// Detail holds the underlying error message when Status is StatusError.
	Detail string
}

// ExecutionTimeMs returns the elapsed time in milliseconds, and false unless the card succeeded.
func (r ResponseState) ExecutionTimeMs() (float64, bool) {
	if r.Status != StatusSuccess {
		return 0, false
	}
	return float64(r.ExecutionTime) / float64(time.Millisecond), true
}
