package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultUpstreamKind = "gemini"
	DefaultTemperature  = 0.7
	DefaultMaxRetries   = 1
	DefaultRetryDelayMS = 2000
	DefaultGridColumns  = 4
	DefaultPort         = 8080
	DefaultStaticDir    = "dist"
	DefaultLogMaxSizeMB = 10
)

// Default returns the reference configuration. Upstream model and label are
// left empty and resolved per upstream kind by the provider package.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			Kind:        DefaultUpstreamKind,
			Temperature: DefaultTemperature,
		},
		Client: ClientConfig{
			ErrorPolicy:  ErrorPolicyFold,
			MaxRetries:   DefaultMaxRetries,
			RetryDelayMS: DefaultRetryDelayMS,
			Render:       RenderInline,
			GridColumns:  DefaultGridColumns,
		},
		Server: ServerConfig{
			Port:      DefaultPort,
			StaticDir: DefaultStaticDir,
		},
		Log: LogConfig{
			MaxSizeMB: DefaultLogMaxSizeMB,
		},
	}
}

func GenerateConfigTemplate() string {
	return `# Model Arena configuration
# Location: ~/.config/arena/config.toml (override with -config or ARENA_CONFIG)
# This file uses TOML format: https://toml.io

[upstream]
# The one real generation backend: gemini, openai, openrouter, anthropic or ollama
kind = "gemini"

# Leave empty for the kind's default endpoint and model
base_url = ""
model = ""

# Name used in the simulation disclosure ("powered by <label>")
label = ""

# Prefer ARENA_API_KEY (or GEMINI_API_KEY) over storing the key here
# api_key = ""

# Direct mode only; the backend proxy leaves sampling to the upstream
temperature = 0.7

[client]
# Backend proxy base URL. Empty means direct mode (the client calls the upstream itself)
proxy_url = ""

# "fold" shows direct-mode upstream failures as card text,
# "strict" marks them as card errors in both modes
error_policy = "fold"

# Retries on 429/503 in direct mode, first delay doubles on each retry.
# retry_delay_ms = 0 keeps the 2000 ms default
max_retries = 1
retry_delay_ms = 2000

# 0 dispatches every card at once
max_concurrency = 0

# "inline" renders **bold** only, "markdown" renders full terminal markdown
render = "inline"

# 1, 2 or 4 cards per row
grid_columns = 4

[server]
port = 8080

# Built web front-end served with index.html fallback (skipped if missing)
static_dir = "dist"

[log]
debug = false

# Rotating log file; empty logs to stdout (server) or the cache dir (client, debug only)
file = ""
max_size_mb = 10
`
}

// WriteDefaultConfig writes the commented template to path, refusing to overwrite.
func WriteDefaultConfig(path string) error {
	if path == "" {
		path = GetConfigFilePath()
	}
	path = ExpandPath(path)

	if FileExists(path) {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may end up holding an API key
	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
