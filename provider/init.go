package provider

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"arena/config"
)

// UpstreamConfig converts the [upstream] config section to a factory Config.
func UpstreamConfig(cfg *config.Config) Config {
	kind := MapKind(cfg.Upstream.Kind)
	model := cfg.Upstream.Model
	if model == "" {
		model = DefaultModel(kind)
	}
	return Config{
		Kind:    kind,
		BaseURL: cfg.Upstream.BaseURL,
		Model:   model,
		APIKey:  cfg.Upstream.APIKey,
	}
}

// Label returns the configured upstream label or the kind's default.
func Label(cfg *config.Config) string {
	if cfg.Upstream.Label != "" {
		return cfg.Upstream.Label
	}
	return DefaultLabel(MapKind(cfg.Upstream.Kind))
}

// InitializeUpstream creates the upstream for cfg. A missing credential is
// not fatal: the returned upstream fails every call with
// ErrMissingCredential and the error is returned alongside it so callers
// can log it and keep running.
func InitializeUpstream(cfg *config.Config) (Upstream, error) {
	pcfg := UpstreamConfig(cfg)

	up, err := NewUpstream(pcfg)
	if err == nil {
		log.Debugf("[Provider] Initialized %s upstream (model %s)", up.Name(), up.Model())
		return up, nil
	}
	if errors.Is(err, ErrMissingCredential) {
		return &unavailableUpstream{kind: pcfg.Kind, model: pcfg.Model, err: err}, err
	}
	return nil, err
}

// NewClientFromConfig builds the generation client for the terminal arena.
// In proxied mode the local upstream is never called, so a missing local
// credential is ignored.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	temperature := cfg.Upstream.Temperature
	opts := ClientOptions{
		ProxyURL:     cfg.Client.ProxyURL,
		Label:        Label(cfg),
		Temperature:  &temperature,
		Retry:        retryPolicy(cfg),
		StrictErrors: cfg.Client.ErrorPolicy == config.ErrorPolicyStrict,
	}

	if cfg.ProxyMode() {
		log.Debugf("[Provider] Using proxy %s", cfg.Client.ProxyURL)
		return NewClient(opts), nil
	}

	up, err := InitializeUpstream(cfg)
	if up == nil {
		return nil, err
	}
	if err != nil {
		log.Warnf("[Provider] %v: every card will report the missing key", err)
	}
	opts.Upstream = up
	return NewClient(opts), nil
}

// retryPolicy starts from DefaultRetryPolicy. A zero retry_delay_ms keeps the default delay.
func retryPolicy(cfg *config.Config) RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxRetries = cfg.Client.MaxRetries
	if d := cfg.RetryDelay(); d > 0 {
		p.InitialDelay = d
	}
	return p
}

// ModelName is the configured upstream model as shown to users, without a vendor prefix.
func ModelName(cfg *config.Config) string {
	return DisplayModel(UpstreamConfig(cfg).Model)
}

// unavailableUpstream stands in for an upstream that cannot be built.
type unavailableUpstream struct {
	kind  UpstreamKind
	model string
	err   error
}

func (u *unavailableUpstream) Generate(ctx context.Context, req Request) (string, error) {
	return "", u.err
}

func (u *unavailableUpstream) Name() string {
	return string(u.kind)
}

func (u *unavailableUpstream) Model() string {
	return u.model
}

func (u *unavailableUpstream) Ping(ctx context.Context) error {
	return fmt.Errorf("upstream unavailable: %w", u.err)
}
