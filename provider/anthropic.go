package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicUpstream implements Upstream using Anthropic's official API.
type AnthropicUpstream struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicUpstream creates a new Anthropic upstream.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: model to use (default: "claude-sonnet-4-5-20250929")
func NewAnthropicUpstream(baseURL, apiKey, model string) (*AnthropicUpstream, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", KindAnthropic, ErrMissingCredential)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL(KindAnthropic)
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &AnthropicUpstream{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

// Generate sends a single user turn with the system instruction as a system block.
func (u *AnthropicUpstream) Generate(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     u.model,
		MaxTokens: anthropicMaxTokens, // Required by Anthropic API
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := u.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (u *AnthropicUpstream) Name() string {
	return string(KindAnthropic)
}

func (u *AnthropicUpstream) Model() string {
	return string(u.model)
}

// Ping implements Upstream.Ping by attempting a minimal request.
func (u *AnthropicUpstream) Ping(ctx context.Context) error {
	// Anthropic has no ping endpoint, so we make a one-token request
	_, err := u.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     u.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	return err
}
