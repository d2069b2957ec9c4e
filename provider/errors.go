package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// ErrMissingCredential means the upstream needs an API key and none is configured.
var ErrMissingCredential = errors.New("upstream API key is not configured")

// UpstreamError is a failed call to the upstream API or to the proxy.
type UpstreamError struct {
	Source     string // upstream kind, or "proxy"
	StatusCode int    // 0 when no HTTP response was received
	Message    string
	Details    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %d %s", e.Source, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// GenerationError is returned by Client under the strict error policy. Its
// UserMessage is the text the card shows.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) UserMessage() string {
	return e.Message
}

// ClassifyError wraps SDK errors in an UpstreamError carrying the HTTP status.
// source names the upstream in the message.
func ClassifyError(source string, err error) error {
	if err == nil {
		return nil
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}

	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		msg := oaErr.Message
		if msg == "" {
			msg = http.StatusText(oaErr.StatusCode)
		}
		return &UpstreamError{Source: source, StatusCode: oaErr.StatusCode, Message: msg, Err: err}
	}

	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return &UpstreamError{Source: source, StatusCode: anErr.StatusCode, Message: err.Error(), Err: err}
	}

	var olErr api.StatusError
	if errors.As(err, &olErr) {
		msg := olErr.ErrorMessage
		if msg == "" {
			msg = olErr.Status
		}
		return &UpstreamError{Source: source, StatusCode: olErr.StatusCode, Message: msg, Err: err}
	}

	return &UpstreamError{Source: source, Message: err.Error(), Err: err}
}

func statusCode(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}

// IsRetryable reports whether err signals throttling or a temporarily
// unavailable upstream (HTTP 429 or 503, by status code or message).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch statusCode(err) {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "503")
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if statusCode(err) == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(err.Error(), "429")
}
