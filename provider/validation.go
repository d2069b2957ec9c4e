package provider

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"arena/config"
)

// CredentialError returns ErrMissingCredential (wrapped with a hint) when the
// configured upstream needs a key and has none.
func CredentialError(cfg *config.Config) error {
	if cfg.HasCredential() {
		return nil
	}
	return fmt.Errorf("%w: set %s or the provider's own key variable", ErrMissingCredential, config.EnvAPIKey)
}

// ValidateUpstream builds the upstream for cfg and pings it.
// Used by `arena -check` to validate a key before starting a session.
func ValidateUpstream(ctx context.Context, cfg Config) error {
	up, err := NewUpstream(cfg)
	if err != nil {
		return fmt.Errorf("failed to create upstream: %w", err)
	}

	if err := up.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", ClassifyError(up.Name(), err))
	}

	log.Debugf("[Provider] Upstream %s ping successful", cfg.Kind)
	return nil
}
