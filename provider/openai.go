package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIUpstream implements Upstream over any OpenAI-compatible chat
// completions API: OpenAI itself, OpenRouter, and Gemini's
// OpenAI-compatible endpoint.
type OpenAIUpstream struct {
	client  openai.Client
	kind    UpstreamKind
	model   string
	baseURL string
}

// NewOpenAIUpstream creates an upstream for kind (gemini, openai or openrouter).
//
// Parameters:
//   - baseURL: API base URL (default depends on kind, see DefaultBaseURL)
//   - apiKey: API key (required)
//   - model: model sent with every call (default depends on kind, see DefaultModel)
//
// The SDK's own retries are disabled; Client applies the retry policy.
func NewOpenAIUpstream(kind UpstreamKind, baseURL, apiKey, model string) (*OpenAIUpstream, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", kind, ErrMissingCredential)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL(kind)
	}
	if model == "" {
		model = DefaultModel(kind)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if kind == KindOpenRouter {
		opts = append(opts, openRouterOptions()...)
	}

	return &OpenAIUpstream{
		client:  openai.NewClient(opts...),
		kind:    kind,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Generate sends one system + user message pair and returns the first choice.
func (u *OpenAIUpstream) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(u.model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := u.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (u *OpenAIUpstream) Name() string {
	return string(u.kind)
}

func (u *OpenAIUpstream) Model() string {
	return u.model
}

// Ping implements Upstream.Ping by attempting to list models.
func (u *OpenAIUpstream) Ping(ctx context.Context) error {
	_, err := u.client.Models.List(ctx)
	return err
}
