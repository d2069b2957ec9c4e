package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables recognised on top of the config file.
const (
	EnvConfigPath = "ARENA_CONFIG"
	EnvAPIKey     = "ARENA_API_KEY"
	EnvProxyURL   = "ARENA_PROXY_URL"
	EnvUpstream   = "ARENA_UPSTREAM"
	EnvModel      = "ARENA_MODEL"
	EnvDebug      = "ARENA_DEBUG"
	EnvPort       = "PORT"
)

// Error policies for upstream failures in direct mode.
const (
	ErrorPolicyFold   = "fold"
	ErrorPolicyStrict = "strict"
)

// Card body render modes.
const (
	RenderInline   = "inline"
	RenderMarkdown = "markdown"
)

type UpstreamConfig struct {
	Kind        string  `toml:"kind"`
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	Label       string  `toml:"label"`
	APIKey      string  `toml:"api_key,omitempty"`
	Temperature float64 `toml:"temperature"`
}

type ClientConfig struct {
	ProxyURL       string `toml:"proxy_url"`
	ErrorPolicy    string `toml:"error_policy"`
	MaxRetries     int    `toml:"max_retries"`
	RetryDelayMS   int    `toml:"retry_delay_ms"`
	MaxConcurrency int    `toml:"max_concurrency"`
	Render         string `toml:"render"`
	GridColumns    int    `toml:"grid_columns"`
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

type LogConfig struct {
	Debug     bool   `toml:"debug"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

type Config struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Client   ClientConfig   `toml:"client"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`

	// Path of the file the config was read from, empty when defaults were used.
	Source string `toml:"-"`
}

// ProxyMode reports whether generation calls go through the backend proxy.
func (c *Config) ProxyMode() bool {
	return strings.TrimSpace(c.Client.ProxyURL) != ""
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Client.RetryDelayMS) * time.Millisecond
}

// HasCredential reports whether the configured upstream can be called.
// Ollama runs locally and needs no key.
func (c *Config) HasCredential() bool {
	if c.Upstream.Kind == "ollama" {
		return true
	}
	return c.Upstream.APIKey != ""
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// DebugLogPath returns where the terminal client writes its debug log.
func (c *Config) DebugLogPath() string {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	return filepath.Join(GetCacheDir(), "debug.log")
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

// credentialEnvVars lists the variables consulted for the upstream key, in priority order.
func credentialEnvVars(kind string) []string {
	vars := []string{EnvAPIKey}
	switch kind {
	case "gemini":
		vars = append(vars, "GEMINI_API_KEY", "API_KEY")
	case "openai":
		vars = append(vars, "OPENAI_API_KEY")
	case "openrouter":
		vars = append(vars, "OPENROUTER_API_KEY")
	case "anthropic":
		vars = append(vars, "ANTHROPIC_API_KEY")
	}
	return vars
}

// NormalizeKind lowercases an upstream kind and resolves its aliases:
// "google" is gemini, "claude" is anthropic and an empty kind is gemini.
func NormalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "", "google":
		return "gemini"
	case "claude":
		return "anthropic"
	}
	return kind
}

func (c *Config) applyEnvOverrides() error {
	if kind := os.Getenv(EnvUpstream); kind != "" {
		c.Upstream.Kind = NormalizeKind(kind)
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.Upstream.Model = model
	}
	for _, name := range credentialEnvVars(c.Upstream.Kind) {
		if key := os.Getenv(name); key != "" {
			c.Upstream.APIKey = key
			break
		}
	}
	if proxy := os.Getenv(EnvProxyURL); proxy != "" {
		c.Client.ProxyURL = proxy
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Server.Port = p
	}
	if CheckDebug() {
		c.Log.Debug = true
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Upstream.Kind {
	case "gemini", "openai", "openrouter", "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown upstream kind %q", c.Upstream.Kind)
	}

	switch c.Client.ErrorPolicy {
	case ErrorPolicyFold, ErrorPolicyStrict:
	default:
		return fmt.Errorf("unknown error_policy %q (want %q or %q)", c.Client.ErrorPolicy, ErrorPolicyFold, ErrorPolicyStrict)
	}

	switch c.Client.Render {
	case RenderInline, RenderMarkdown:
	default:
		return fmt.Errorf("unknown render mode %q (want %q or %q)", c.Client.Render, RenderInline, RenderMarkdown)
	}

	switch c.Client.GridColumns {
	case 1, 2, 4:
	default:
		return fmt.Errorf("grid_columns must be 1, 2 or 4, got %d", c.Client.GridColumns)
	}

	if c.Client.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Client.RetryDelayMS < 0 {
		return fmt.Errorf("retry_delay_ms must not be negative")
	}
	if c.Client.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overrides and validates the result. A missing
// file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = GetConfigFilePath()
	}
	path = ExpandPath(path)

	if FileExists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Source = path
	}

	cfg.Upstream.Kind = NormalizeKind(cfg.Upstream.Kind)
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Client.ProxyURL = strings.TrimRight(strings.TrimSpace(cfg.Client.ProxyURL), "/")

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
