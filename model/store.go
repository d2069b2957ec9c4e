package model

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrStaleUpdate       = errors.New("update belongs to a finished cycle")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnknownModel      = errors.New("unknown model")
)

// Store holds exactly one ResponseState per registered model. The Arena is its
// only writer; everything else reads snapshots and listens on Subscribe.
type Store struct {
	mu      sync.RWMutex
	order   []string
	states  map[string]ResponseState
	cycleID string

	subMu sync.Mutex
	subs  map[int]chan struct{}
	next  int
}

// NewStore creates a store with every model idle.
func NewStore(ids []string) *Store {
	s := &Store{
		order:  append([]string(nil), ids...),
		states: make(map[string]ResponseState, len(ids)),
		subs:   make(map[int]chan struct{}),
	}
	for _, id := range ids {
		s.states[id] = ResponseState{ModelID: id, Status: StatusIdle}
	}
	return s
}

// reset replaces the whole collection with loading entries for a new cycle.
func (s *Store) reset(cycleID string) {
	s.mu.Lock()
	states := make(map[string]ResponseState, len(s.order))
	for _, id := range s.order {
		states[id] = ResponseState{ModelID: id, Status: StatusLoading}
	}
	s.states = states
	s.cycleID = cycleID
	s.mu.Unlock()

	s.notify()
}

// settle moves one loading entry of the current cycle to a terminal state.
func (s *Store) settle(cycleID, modelID string, next ResponseState) error {
	if !next.Status.Terminal() {
		return fmt.Errorf("%w: %s is not terminal", ErrInvalidTransition, next.Status)
	}

	s.mu.Lock()
	if cycleID != s.cycleID {
		s.mu.Unlock()
		return ErrStaleUpdate
	}
	cur, ok := s.states[modelID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	if cur.Status != StatusLoading {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, cur.Status, next.Status, modelID)
	}

	next.ModelID = modelID
	if next.Status != StatusSuccess {
		next.ExecutionTime = 0
	}
	if next.Status != StatusError {
		next.Detail = ""
	}
	s.states[modelID] = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Snapshot is a read-only copy of the store.
type Snapshot struct {
	CycleID string
	Order   []string
	States  map[string]ResponseState
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make(map[string]ResponseState, len(s.states))
	for k, v := range s.states {
		states[k] = v
	}
	return Snapshot{
		CycleID: s.cycleID,
		Order:   append([]string(nil), s.order...),
		States:  states,
	}
}

// State returns the entry for id; unknown IDs read as idle.
func (sn Snapshot) State(id string) ResponseState {
	if st, ok := sn.States[id]; ok {
		return st
	}
	return ResponseState{ModelID: id, Status: StatusIdle}
}

// Settled reports whether every entry is terminal.
func (sn Snapshot) Settled() bool {
	for _, id := range sn.Order {
		if !sn.State(id).Status.Terminal() {
			return false
		}
	}
	return len(sn.Order) > 0
}

// Pending counts entries still loading.
func (sn Snapshot) Pending() int {
	n := 0
	for _, id := range sn.Order {
		if sn.State(id).Status == StatusLoading {
			n++
		}
	}
	return n
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce: a slow reader sees at least one signal after the latest
// change, never a blocked writer. Call cancel to release the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
