package model

import (
	"arena/config"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config  *config.Config
	Backend Backend
	Arena   *Arena

	// Application data
	Registry *Registry

	// Runtime state (not UI)
	UpstreamChecked bool
	UpstreamErr     error
	Quitting        bool

	// Application metadata
	Version string
}

// NewModel wires the arena for registry over backend using the client settings in cfg.
func NewModel(cfg *config.Config, registry *Registry, backend Backend, version string) *Model {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Model{
		Config:   cfg,
		Backend:  backend,
		Arena:    NewArena(registry, backend, Options{MaxConcurrency: cfg.Client.MaxConcurrency}),
		Registry: registry,
		Version:  version,
	}
}

// Mode returns the backend routing mode for display.
func (m *Model) Mode() string {
	if m.Backend == nil {
		return "offline"
	}
	return m.Backend.Mode()
}

// UpstreamLabel names the real upstream used for simulated cards.
func (m *Model) UpstreamLabel() string {
	if m.Backend == nil {
		return ""
	}
	return m.Backend.Label()
}
