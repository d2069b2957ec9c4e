package provider

import (
	"errors"
	"testing"
)

func TestNewUpstream(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectType  string
		expectError bool
		missingKey  bool
	}{
		{
			name:       "gemini with defaults",
			config:     Config{Kind: KindGemini, APIKey: "test-key"},
			expectType: "*provider.OpenAIUpstream",
		},
		{
			name:       "openai",
			config:     Config{Kind: KindOpenAI, APIKey: "test-key", Model: "gpt-4o-mini"},
			expectType: "*provider.OpenAIUpstream",
		},
		{
			name:       "openrouter",
			config:     Config{Kind: KindOpenRouter, APIKey: "test-key"},
			expectType: "*provider.OpenAIUpstream",
		},
		{
			name:       "anthropic",
			config:     Config{Kind: KindAnthropic, APIKey: "test-key"},
			expectType: "*provider.AnthropicUpstream",
		},
		{
			name:       "ollama needs no key",
			config:     Config{Kind: KindOllama, BaseURL: "http://localhost:11434"},
			expectType: "*provider.OllamaUpstream",
		},
		{
			name:        "gemini without key",
			config:      Config{Kind: KindGemini},
			expectError: true,
			missingKey:  true,
		},
		{
			name:        "anthropic without key",
			config:      Config{Kind: KindAnthropic},
			expectError: true,
			missingKey:  true,
		},
		{
			name:        "unknown kind",
			config:      Config{Kind: UpstreamKind("bard"), APIKey: "k"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, err := NewUpstream(tt.config)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got upstream %T", up)
				}
				if errors.Is(err, ErrMissingCredential) != tt.missingKey {
					t.Errorf("errors.Is(err, ErrMissingCredential) = %v, want %v (err: %v)", !tt.missingKey, tt.missingKey, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(up); got != tt.expectType {
				t.Errorf("NewUpstream() type = %s, want %s", got, tt.expectType)
			}
			if up.Model() == "" {
				t.Error("upstream should resolve a default model")
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *OpenAIUpstream:
		return "*provider.OpenAIUpstream"
	case *AnthropicUpstream:
		return "*provider.AnthropicUpstream"
	case *OllamaUpstream:
		return "*provider.OllamaUpstream"
	default:
		return "unknown"
	}
}

func TestMapKind(t *testing.T) {
	tests := []struct {
		id   string
		want UpstreamKind
	}{
		{"", KindGemini},
		{"gemini", KindGemini},
		{"Google", KindGemini},
		{"openai", KindOpenAI},
		{"openrouter", KindOpenRouter},
		{"claude", KindAnthropic},
		{"OLLAMA", KindOllama},
		{"bard", UpstreamKind("bard")},
	}
	for _, tt := range tests {
		if got := MapKind(tt.id); got != tt.want {
			t.Errorf("MapKind(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	if got := DefaultModel(KindGemini); got != "gemini-2.5-flash" {
		t.Errorf("DefaultModel(gemini) = %q", got)
	}
	if got := DefaultLabel(KindGemini); got != "Google Gemini" {
		t.Errorf("DefaultLabel(gemini) = %q", got)
	}
	for _, kind := range []UpstreamKind{KindGemini, KindOpenAI, KindOpenRouter, KindAnthropic, KindOllama} {
		if DefaultBaseURL(kind) == "" || DefaultModel(kind) == "" || DefaultLabel(kind) == "" {
			t.Errorf("missing defaults for %s", kind)
		}
	}
	if NeedsCredential(KindOllama) || !NeedsCredential(KindGemini) {
		t.Error("only ollama runs without a key")
	}
}

func TestDisplayModel(t *testing.T) {
	if got := DisplayModel("meta-llama/llama-3.2-90b-instruct"); got != "llama-3.2-90b-instruct" {
		t.Errorf("DisplayModel() = %q", got)
	}
	if got := DisplayModel("gemini-2.5-flash"); got != "gemini-2.5-flash" {
		t.Errorf("DisplayModel() = %q", got)
	}
}
