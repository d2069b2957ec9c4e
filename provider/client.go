package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"arena/model"
)

// Routing modes reported by Client.Mode.
const (
	ModeDirect  = "direct"
	ModeProxied = "proxied"
)

const defaultProxyTimeout = 2 * time.Minute

// ClientOptions configures a Client. Exactly one route is used for the
// lifetime of the client: ProxyURL when set, otherwise Upstream.
type ClientOptions struct {
	Upstream Upstream

	// ProxyURL is the arena-server base URL, e.g. "http://localhost:8080".
	ProxyURL   string
	HTTPClient *http.Client

	// Label names the upstream in the simulation disclosure.
	Label       string
	Temperature *float64
	Retry       RetryPolicy

	// StrictErrors reports upstream failures as GenerationError in both
	// modes instead of folding direct-mode failures into reply text.
	StrictErrors bool
}

// Client implements model.Backend.
type Client struct {
	upstream    Upstream
	proxyURL    string
	http        *http.Client
	label       string
	temperature *float64
	retry       RetryPolicy
	strict      bool
	tracer      trace.Tracer
}

var _ model.Backend = (*Client)(nil)

func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultProxyTimeout}
	}
	label := opts.Label
	if label == "" {
		label = DefaultLabel(KindGemini)
	}
	return &Client{
		upstream:    opts.Upstream,
		proxyURL:    strings.TrimRight(opts.ProxyURL, "/"),
		http:        httpClient,
		label:       label,
		temperature: opts.Temperature,
		retry:       opts.Retry,
		strict:      opts.StrictErrors,
		tracer:      otel.Tracer("arena/provider"),
	}
}

func (c *Client) Mode() string {
	if c.proxyURL != "" {
		return ModeProxied
	}
	return ModeDirect
}

func (c *Client) Label() string {
	return c.label
}

// Generate answers prompt as the card d.
func (c *Client) Generate(ctx context.Context, d model.ModelDescriptor, prompt string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "arena.generate", trace.WithAttributes(
		attribute.String("arena.model_id", d.ID),
		attribute.String("arena.mode", c.Mode()),
		attribute.Bool("arena.native", d.IsNative()),
	))
	defer span.End()

	system := SystemInstruction(d, c.label)

	var (
		text string
		err  error
	)
	if c.proxyURL != "" {
		text, err = c.generateProxied(ctx, prompt, system)
	} else {
		text, err = c.generateDirect(ctx, d, prompt, system)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("arena.reply_length", len(text)))
	return text, nil
}

func (c *Client) generateDirect(ctx context.Context, d model.ModelDescriptor, prompt, system string) (string, error) {
	if c.upstream == nil {
		return "", ErrMissingCredential
	}

	text, err := c.retry.Do(ctx, d.DisplayName, func(ctx context.Context) (string, error) {
		reply, err := c.upstream.Generate(ctx, Request{
			Prompt:            prompt,
			SystemInstruction: system,
			Temperature:       c.temperature,
		})
		if err != nil {
			return "", ClassifyError(c.upstream.Name(), err)
		}
		if reply == "" {
			return EmptyReplyPlaceholder, nil
		}
		return reply, nil
	})
	if err == nil {
		return text, nil
	}

	log.WithField("model", d.ID).Errorf("Error generating content for %s: %v", d.DisplayName, err)
	msg := errorText(err)
	if c.strict {
		return "", &GenerationError{Message: msg, Err: err}
	}
	return msg, nil
}

// errorText turns a final upstream failure into card text.
func errorText(err error) string {
	if err == nil {
		return UnexpectedErrorMessage
	}
	if isRateLimited(err) {
		return BusyMessage
	}
	return "Error: " + err.Error()
}

// Ping checks the proxy health endpoint in proxied mode, the upstream otherwise.
func (c *Client) Ping(ctx context.Context) error {
	if c.proxyURL != "" {
		return c.pingProxy(ctx)
	}
	if c.upstream == nil {
		return ErrMissingCredential
	}
	if err := c.upstream.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", c.upstream.Name(), ClassifyError(c.upstream.Name(), err))
	}
	return nil
}
