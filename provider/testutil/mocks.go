package testutil

import (
	"context"
	"sync"

	"arena/provider"
)

// MockUpstream implements provider.Upstream for testing
type MockUpstream struct {
	// Configurable responses
	GenerateFunc func(ctx context.Context, req provider.Request) (string, error)
	PingFunc     func(ctx context.Context) error

	mu       sync.Mutex
	requests []provider.Request
	model    string
}

// NewMockUpstream creates a mock upstream that echoes the prompt
func NewMockUpstream(modelName string) *MockUpstream {
	mock := &MockUpstream{model: modelName}
	mock.GenerateFunc = mock.defaultGenerate
	mock.PingFunc = mock.defaultPing
	return mock
}

// Replying returns a mock upstream that always answers reply
func Replying(reply string) *MockUpstream {
	mock := NewMockUpstream("mock-model")
	mock.GenerateFunc = func(ctx context.Context, req provider.Request) (string, error) {
		return reply, nil
	}
	return mock
}

// Sequence returns a mock upstream that plays results in order, repeating the last one
func Sequence(results ...Result) *MockUpstream {
	mock := NewMockUpstream("mock-model")
	var (
		mu sync.Mutex
		i  int
	)
	mock.GenerateFunc = func(ctx context.Context, req provider.Request) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		r := results[i]
		if i < len(results)-1 {
			i++
		}
		return r.Text, r.Err
	}
	return mock
}

// Result is one scripted upstream outcome
type Result struct {
	Text string
	Err  error
}

func (m *MockUpstream) defaultGenerate(ctx context.Context, req provider.Request) (string, error) {
	return "Mock response to: " + req.Prompt, nil
}

func (m *MockUpstream) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockUpstream) Generate(ctx context.Context, req provider.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, req)
}

func (m *MockUpstream) Name() string {
	return "mock"
}

func (m *MockUpstream) Model() string {
	return m.model
}

func (m *MockUpstream) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// Requests returns every request received so far
func (m *MockUpstream) Requests() []provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]provider.Request(nil), m.requests...)
}

// Calls returns how many times Generate was called
func (m *MockUpstream) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
