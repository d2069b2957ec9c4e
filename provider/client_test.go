package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/model"
	"arena/provider"
	"arena/provider/testutil"
)

func fastRetry() provider.RetryPolicy {
	return provider.RetryPolicy{MaxRetries: 1, InitialDelay: 10 * time.Millisecond}
}

func TestSystemInstruction(t *testing.T) {
	native := testutil.NativeModel()
	assert.Equal(t, provider.GenericInstruction, provider.SystemInstruction(native, "Google Gemini"))

	persona := testutil.PersonaModel("You are a pirate.")
	want := "You are a pirate. IMPORTANT: You are currently running in a 'Simulation Mode' powered by Google Gemini to demonstrate how this UI works."
	assert.Equal(t, want, provider.SystemInstruction(persona, "Google Gemini"))
	assert.Equal(t, provider.SystemInstruction(persona, "Google Gemini"), provider.SystemInstruction(persona, "Google Gemini"))
}

func TestDirectSendsInstructionAndTemperature(t *testing.T) {
	up := testutil.Replying("Arr")
	temp := 0.7
	c := provider.NewClient(provider.ClientOptions{Upstream: up, Label: "Google Gemini", Temperature: &temp})

	persona := testutil.PersonaModel("You are a pirate.")
	text, err := c.Generate(context.Background(), persona, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Arr", text)

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "hello", reqs[0].Prompt)
	assert.Equal(t, provider.SystemInstruction(persona, "Google Gemini"), reqs[0].SystemInstruction)
	require.NotNil(t, reqs[0].Temperature)
	assert.Equal(t, 0.7, *reqs[0].Temperature)
	assert.Equal(t, provider.ModeDirect, c.Mode())
}

func TestDirectErrorTranslation(t *testing.T) {
	tests := []struct {
		name      string
		results   []testutil.Result
		wantText  string
		wantCalls int
		prefix    bool
	}{
		{
			name:      "429 then success yields the retried reply",
			results:   []testutil.Result{{Err: errors.New("429 Too Many Requests")}, {Text: "second try"}},
			wantText:  "second try",
			wantCalls: 2,
		},
		{
			name:      "503 twice folds into error text",
			results:   []testutil.Result{{Err: errors.New("503 Service Unavailable")}},
			wantText:  "Error: ",
			wantCalls: 2,
			prefix:    true,
		},
		{
			name:      "429 twice becomes the busy message",
			results:   []testutil.Result{{Err: errors.New("429 Too Many Requests")}},
			wantText:  provider.BusyMessage,
			wantCalls: 2,
		},
		{
			name:      "other errors are not retried",
			results:   []testutil.Result{{Err: errors.New("invalid key")}},
			wantText:  "Error: mock: invalid key",
			wantCalls: 1,
		},
		{
			name:      "empty reply gets a placeholder",
			results:   []testutil.Result{{Text: ""}},
			wantText:  provider.EmptyReplyPlaceholder,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := testutil.Sequence(tt.results...)
			c := provider.NewClient(provider.ClientOptions{Upstream: up, Retry: fastRetry()})

			text, err := c.Generate(context.Background(), testutil.NativeModel(), "hi")
			require.NoError(t, err, "fold policy never returns an error in direct mode")
			if tt.prefix {
				assert.True(t, strings.HasPrefix(text, tt.wantText), "got %q", text)
			} else {
				assert.Equal(t, tt.wantText, text)
			}
			assert.Equal(t, tt.wantCalls, up.Calls())
		})
	}
}

func TestDirectStrictPolicy(t *testing.T) {
	up := testutil.Sequence(testutil.Result{Err: errors.New("503 Service Unavailable")})
	c := provider.NewClient(provider.ClientOptions{Upstream: up, Retry: fastRetry(), StrictErrors: true})

	_, err := c.Generate(context.Background(), testutil.NativeModel(), "hi")
	require.Error(t, err)

	var gerr *provider.GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.True(t, strings.HasPrefix(gerr.UserMessage(), "Error: "))
	assert.Equal(t, 2, up.Calls())
}

// The arena view of the two retry properties: both settle as success.
func TestArenaDirectRetryOutcomes(t *testing.T) {
	up := testutil.Sequence(
		testutil.Result{Err: errors.New("503 Service Unavailable")},
		testutil.Result{Err: errors.New("503 Service Unavailable")},
	)
	c := provider.NewClient(provider.ClientOptions{Upstream: up, Retry: fastRetry()})

	reg, err := model.NewRegistry([]model.ModelDescriptor{testutil.NativeModel()})
	require.NoError(t, err)
	a := model.NewArena(reg, c, model.Options{})

	cycle, err := a.Submit(context.Background(), "hi")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, cycle.Wait(ctx))

	st := a.Snapshot().State("native")
	assert.Equal(t, model.StatusSuccess, st.Status)
	assert.True(t, strings.HasPrefix(st.Text, "Error: "))
}

func TestMissingUpstream(t *testing.T) {
	c := provider.NewClient(provider.ClientOptions{})

	_, err := c.Generate(context.Background(), testutil.NativeModel(), "hi")
	assert.ErrorIs(t, err, provider.ErrMissingCredential)
	assert.ErrorIs(t, c.Ping(context.Background()), provider.ErrMissingCredential)
}

func newProxy(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestProxiedGenerate(t *testing.T) {
	var got provider.ChatRequest
	calls := 0
	srv := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(provider.ChatResponse{Reply: "proxied reply"})
	})

	c := provider.NewClient(provider.ClientOptions{ProxyURL: srv.URL + "/", Label: "Google Gemini"})
	persona := testutil.PersonaModel("You are a pirate.")

	text, err := c.Generate(context.Background(), persona, "ahoy")
	require.NoError(t, err)
	assert.Equal(t, "proxied reply", text)
	assert.Equal(t, "ahoy", got.Prompt)
	assert.Equal(t, provider.SystemInstruction(persona, "Google Gemini"), got.SystemInstruction)
	assert.Equal(t, provider.ModeProxied, c.Mode())
	assert.Equal(t, 1, calls)
}

func TestProxiedErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
	}{
		{"bad input", http.StatusBadRequest, `{"error":"prompt is required"}`, "prompt is required", 400},
		{"details only", http.StatusInternalServerError, `{"details":"quota exceeded"}`, "quota exceeded", 500},
		{"ai error", http.StatusInternalServerError, `{"error":"AI_ERROR","details":"503 overloaded"}`, "AI_ERROR", 500},
		{"no body", http.StatusBadGateway, ``, "API_ERROR", 502},
		{"html body", http.StatusServiceUnavailable, `<html>down</html>`, "API_ERROR", 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c := provider.NewClient(provider.ClientOptions{ProxyURL: srv.URL, Retry: fastRetry()})

			_, err := c.Generate(context.Background(), testutil.NativeModel(), "hi")
			require.Error(t, err)

			var ue *provider.UpstreamError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, "proxy", ue.Source)
			assert.Equal(t, tt.wantMsg, ue.Message)
			assert.Equal(t, tt.wantStatus, ue.StatusCode)
			assert.Equal(t, 1, calls, "proxied mode never retries")
		})
	}
}

func TestProxiedEmptyReplyAndBadJSON(t *testing.T) {
	body := `{"reply":""}`
	srv := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	c := provider.NewClient(provider.ClientOptions{ProxyURL: srv.URL})

	text, err := c.Generate(context.Background(), testutil.NativeModel(), "hi")
	require.NoError(t, err)
	assert.Equal(t, provider.EmptyProxyReplyPlaceholder, text)

	body = `not json`
	_, err = c.Generate(context.Background(), testutil.NativeModel(), "hi")
	assert.Error(t, err)
}

func TestProxiedUnreachableFailsCard(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := provider.NewClient(provider.ClientOptions{ProxyURL: url})
	reg, err := model.NewRegistry([]model.ModelDescriptor{testutil.NativeModel()})
	require.NoError(t, err)
	a := model.NewArena(reg, c, model.Options{})

	cycle, err := a.Submit(context.Background(), "hi")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, cycle.Wait(ctx))

	st := a.Snapshot().State("native")
	assert.Equal(t, model.StatusError, st.Status)
	assert.Equal(t, model.FailureText, st.Text)
	assert.NotEmpty(t, st.Detail)
}

func TestPingProxy(t *testing.T) {
	healthy := true
	srv := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	c := provider.NewClient(provider.ClientOptions{ProxyURL: srv.URL})

	assert.NoError(t, c.Ping(context.Background()))
	healthy = false
	assert.Error(t, c.Ping(context.Background()))
}

func TestPingDirect(t *testing.T) {
	up := testutil.NewMockUpstream("m")
	up.PingFunc = func(ctx context.Context) error { return errors.New("401 unauthorized") }
	c := provider.NewClient(provider.ClientOptions{Upstream: up})

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
