package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrCycleInFlight = errors.New("a prompt is already being answered")
)

// FailureText is shown on a card whose generation call failed outright.
const FailureText = "Failed to generate response."

// userMessenger is implemented by errors that carry card-ready text.
type userMessenger interface {
	UserMessage() string
}

// Options tunes the fan-out.
type Options struct {
	// MaxConcurrency caps simultaneous generation calls. 0 means one call per model at once.
	MaxConcurrency int
}

// Cycle is one submitted prompt and its fan-out.
type Cycle struct {
	ID        string
	Prompt    string
	StartedAt time.Time

	done chan struct{}
}

// Done is closed once every model has settled.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the cycle settles or ctx ends.
func (c *Cycle) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Arena fans one prompt out to every registered model and records the
// results in its Store. At most one cycle runs at a time.
type Arena struct {
	registry  *Registry
	generator Generator
	store     *Store
	opts      Options

	mu      sync.Mutex
	current *Cycle
}

func NewArena(registry *Registry, generator Generator, opts Options) *Arena {
	return &Arena{
		registry:  registry,
		generator: generator,
		store:     NewStore(registry.IDs()),
		opts:      opts,
	}
}

func (a *Arena) Registry() *Registry {
	return a.registry
}

// Submit starts a cycle for prompt and returns without waiting for replies.
// An empty prompt or a running cycle is rejected without touching state.
// Calls already issued are never cancelled; ctx only carries values.
func (a *Arena) Submit(ctx context.Context, prompt string) (*Cycle, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	a.mu.Lock()
	if a.current != nil {
		a.mu.Unlock()
		return nil, ErrCycleInFlight
	}
	c := &Cycle{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	a.current = c
	a.store.reset(c.ID)
	a.mu.Unlock()

	log.WithField("cycle_id", c.ID).Debugf("cycle started for %d models", a.registry.Len())

	go a.run(context.WithoutCancel(ctx), c)
	return c, nil
}

func (a *Arena) run(ctx context.Context, c *Cycle) {
	var g errgroup.Group
	if a.opts.MaxConcurrency > 0 {
		g.SetLimit(a.opts.MaxConcurrency)
	}

	for _, d := range a.registry.Models() {
		g.Go(func() error {
			a.dispatch(ctx, c, d)
			return nil
		})
	}
	_ = g.Wait()

	a.finish(c)
}

func (a *Arena) dispatch(ctx context.Context, c *Cycle, d ModelDescriptor) {
	start := time.Now()
	text, err := a.generate(ctx, d, c.Prompt)
	elapsed := time.Since(start)

	entry := log.WithField("cycle_id", c.ID).WithField("model", d.ID)

	next := ResponseState{Status: StatusSuccess, Text: text, ExecutionTime: elapsed}
	if err != nil {
		next = ResponseState{Status: StatusError, Text: FailureText, Detail: err.Error()}
		var um userMessenger
		if errors.As(err, &um) && um.UserMessage() != "" {
			next.Text = um.UserMessage()
		}
		entry.Warnf("generation failed after %s: %v", elapsed.Round(time.Millisecond), err)
	} else {
		entry.Debugf("generation finished in %s", elapsed.Round(time.Millisecond))
	}

	if err := a.store.settle(c.ID, d.ID, next); err != nil {
		entry.Errorf("dropping result: %v", err)
	}
}

// generate shields the cycle from a panicking generator so it still settles.
func (a *Arena) generate(ctx context.Context, d ModelDescriptor, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return a.generator.Generate(ctx, d, prompt)
}

func (a *Arena) finish(c *Cycle) {
	a.mu.Lock()
	if a.current == c {
		a.current = nil
	}
	a.mu.Unlock()

	close(c.done)
	a.store.notify()

	log.WithField("cycle_id", c.ID).Debugf("cycle settled in %s", time.Since(c.StartedAt).Round(time.Millisecond))
}

// InFlight reports whether a cycle is running.
func (a *Arena) InFlight() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil
}

func (a *Arena) Snapshot() Snapshot {
	return a.store.Snapshot()
}

// Subscribe signals after every state change, including the end of a cycle.
func (a *Arena) Subscribe() (<-chan struct{}, func()) {
	return a.store.Subscribe()
}
