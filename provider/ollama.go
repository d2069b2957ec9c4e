package provider

import (
	"context"
	"fmt"
	"strings"

	"arena/ollama"
)

// OllamaUpstream wraps ollama.Client to implement Upstream.
type OllamaUpstream struct {
	client *ollama.Client
}

// NewOllamaUpstream creates an upstream for a local Ollama server.
//
// Parameters:
//   - baseURL: The Ollama server URL (default "http://localhost:11434")
//   - model: The model name to use (default "llama3.1:latest")
func NewOllamaUpstream(baseURL, model string) (*OllamaUpstream, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaUpstream{client: client}, nil
}

func (u *OllamaUpstream) Generate(ctx context.Context, req Request) (string, error) {
	text, err := u.client.Generate(ctx, req.Prompt, ollama.GenerateOptions{
		System:      req.SystemInstruction,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (u *OllamaUpstream) Name() string {
	return string(KindOllama)
}

func (u *OllamaUpstream) Model() string {
	return u.client.GetModel()
}

// Ping checks the server is up and the configured model is pulled.
func (u *OllamaUpstream) Ping(ctx context.Context) error {
	ok, err := u.client.HasModel(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("model %q is not available on %s (run: ollama pull %s)", u.client.GetModel(), u.client.BaseURL(), u.client.GetModel())
	}
	return nil
}
