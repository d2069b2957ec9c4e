package provider

import (
	"fmt"

	"arena/config"
)

// NewUpstream creates the upstream described by cfg.
//
// Supported kinds:
//   - KindGemini: Gemini through its OpenAI-compatible endpoint
//   - KindOpenAI, KindOpenRouter: OpenAI-compatible chat completions
//   - KindAnthropic: Claude through the Anthropic SDK
//   - KindOllama: a local Ollama server (no API key)
//
// Returns an error if the kind is unknown, the kind needs an API key and
// none is set (wrapping ErrMissingCredential), or the URL is invalid.
func NewUpstream(cfg Config) (Upstream, error) {
	switch cfg.Kind {
	case KindGemini, KindOpenAI, KindOpenRouter:
		return NewOpenAIUpstream(cfg.Kind, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case KindAnthropic:
		return NewAnthropicUpstream(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case KindOllama:
		return NewOllamaUpstream(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown upstream kind: %s", cfg.Kind)
	}
}

// MapKind converts a config value to an UpstreamKind, resolving the aliases
// config.NormalizeKind knows. Unknown values are passed through so the
// factory reports them.
func MapKind(id string) UpstreamKind {
	return UpstreamKind(config.NormalizeKind(id))
}

// DefaultModel is the fixed model used when none is configured.
func DefaultModel(kind UpstreamKind) string {
	switch kind {
	case KindGemini:
		return "gemini-2.5-flash"
	case KindOpenAI:
		return "gpt-4o-mini"
	case KindOpenRouter:
		return "meta-llama/llama-3.2-90b-instruct"
	case KindAnthropic:
		return "claude-sonnet-4-5-20250929"
	case KindOllama:
		return "llama3.1:latest"
	default:
		return ""
	}
}

// DefaultLabel is the upstream name used in the simulation disclosure.
func DefaultLabel(kind UpstreamKind) string {
	switch kind {
	case KindGemini:
		return "Google Gemini"
	case KindOpenAI:
		return "OpenAI"
	case KindOpenRouter:
		return "OpenRouter"
	case KindAnthropic:
		return "Anthropic Claude"
	case KindOllama:
		return "Ollama"
	default:
		return string(kind)
	}
}

func DefaultBaseURL(kind UpstreamKind) string {
	switch kind {
	case KindGemini:
		return "https://generativelanguage.googleapis.com/v1beta/openai/"
	case KindOpenAI:
		return "https://api.openai.com/v1"
	case KindOpenRouter:
		return "https://openrouter.ai/api/v1"
	case KindAnthropic:
		return "https://api.anthropic.com"
	case KindOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}

// NeedsCredential reports whether kind requires an API key.
func NeedsCredential(kind UpstreamKind) bool {
	return kind != KindOllama
}
