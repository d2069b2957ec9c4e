package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Wire types of the arena-server chat API.
type ChatRequest struct {
	Prompt            string `json:"prompt"`
	SystemInstruction string `json:"systemInstruction,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error codes and messages sent by the proxy.
const (
	ErrCodeAIError         = "AI_ERROR"
	ErrCodeAPIError        = "API_ERROR"
	MsgPromptRequired      = "prompt is required"
	MsgMisconfiguredServer = "Server misconfiguration: API Key missing"
)

// maxProxyBody bounds how much of a proxy response is read.
const maxProxyBody = 4 << 20

// generateProxied makes exactly one call to the proxy. The proxy owns the
// upstream attempt, so nothing is retried here.
func (c *Client) generateProxied(ctx context.Context, prompt, system string) (string, error) {
	body, err := json.Marshal(ChatRequest{Prompt: prompt, SystemInstruction: system})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil {
		return "", fmt.Errorf("failed to read proxy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := proxyError(resp.StatusCode, raw)
		log.Errorf("proxy call failed: %v", perr)
		if c.strict {
			return "", &GenerationError{Message: errorText(perr), Err: perr}
		}
		return "", perr
	}

	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("proxy returned invalid JSON (status %d)", resp.StatusCode)
	}
	reply := gjson.GetBytes(raw, "reply").String()
	if reply == "" {
		return EmptyProxyReplyPlaceholder, nil
	}
	return reply, nil
}

// proxyError reads the proxy's error body: error, else details, else API_ERROR.
func proxyError(status int, raw []byte) *UpstreamError {
	var msg, details string
	if gjson.ValidBytes(raw) {
		msg = gjson.GetBytes(raw, "error").String()
		details = gjson.GetBytes(raw, "details").String()
	}
	if msg == "" {
		msg = details
	}
	if msg == "" {
		msg = ErrCodeAPIError
	}
	return &UpstreamError{Source: "proxy", StatusCode: status, Message: msg, Details: details}
}

func (c *Client) pingProxy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.proxyURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("proxy unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if resp.StatusCode != http.StatusOK || gjson.GetBytes(raw, "status").String() != "ok" {
		return &UpstreamError{Source: "proxy", StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}
