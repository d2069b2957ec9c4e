package model

import "context"

// Generator produces one card's reply for a prompt.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: the provider package imports model for ModelDescriptor and
// implements Generator, while the Arena only depends on this interface.
type Generator interface {
	Generate(ctx context.Context, d ModelDescriptor, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, d ModelDescriptor, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, d ModelDescriptor, prompt string) (string, error) {
	return f(ctx, d, prompt)
}

// Backend is the generation client as seen by the application.
type Backend interface {
	Generator

	// Mode returns "direct" or "proxied".
	Mode() string

	// Label names the real upstream, e.g. "Google Gemini".
	Label() string

	// Ping checks that the upstream (or proxy) is reachable.
	Ping(ctx context.Context) error
}
