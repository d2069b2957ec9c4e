// Package provider talks to the one real generation backend behind the arena.
//
// Every card in the arena is answered by the same upstream. The native card
// is asked as itself; every other card is asked to role-play its persona,
// with a disclosure that the answer is simulated.
//
// # Architecture
//
//   - provider.Upstream is the contract for one upstream API (interface)
//   - provider.OpenAIUpstream serves Gemini (OpenAI-compatible endpoint), OpenAI and OpenRouter
//   - provider.AnthropicUpstream serves Claude
//   - provider.OllamaUpstream serves a local Ollama server
//   - provider.NewUpstream() factory creates the upstream from config
//   - provider.Client implements model.Backend: it builds the system
//     instruction and routes each call directly to the upstream (with the
//     retry policy) or through the arena-server proxy
//
// # Usage
//
//	up, err := provider.NewUpstream(provider.Config{
//	    Kind:   provider.KindGemini,
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	client := provider.NewClient(provider.ClientOptions{Upstream: up})
//	text, err := client.Generate(ctx, descriptor, "Explain quicksort")
package provider

import "context"

// Note: The Generator and Backend interfaces are defined in the model package
// (model/provider.go) to avoid import cycles. Client implements model.Backend.

// UpstreamKind identifies the upstream implementation.
type UpstreamKind string

const (
	KindGemini     UpstreamKind = "gemini"
	KindOpenAI     UpstreamKind = "openai"
	KindOpenRouter UpstreamKind = "openrouter"
	KindAnthropic  UpstreamKind = "anthropic"
	KindOllama     UpstreamKind = "ollama"
)

// Config holds upstream-specific configuration.
type Config struct {
	Kind    UpstreamKind
	BaseURL string
	Model   string
	APIKey  string // Unused for Ollama
}

// Request is one single-turn generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       *float64
}

// Upstream is a single real generation API.
type Upstream interface {
	// Generate returns the full reply text for one prompt.
	Generate(ctx context.Context, req Request) (string, error)

	// Name returns the upstream kind, used in logs and error sources.
	Name() string

	// Model returns the fixed model identifier sent with every call.
	Model() string

	// Ping checks that the upstream is reachable with the configured credential.
	Ping(ctx context.Context) error
}
