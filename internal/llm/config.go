package llm

import (
	"fmt"
	"strings"
	"time"
)

// Supported provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config holds all LLM provider configuration.
type Config struct {
	Provider string `koanf:"provider"`

	Anthropic  BackendConfig `koanf:"anthropic"`
	OpenAI     BackendConfig `koanf:"openai"`
	Gemini     BackendConfig `koanf:"gemini"`
	OpenRouter BackendConfig `koanf:"openrouter"`
	Retry      RetryConfig   `koanf:"retry"`

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration `koanf:"timeout"`

	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

// BackendConfig is the per-provider connection setting. BaseURL is only
// honored by the OpenAI-compatible backends.
type BackendConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	InitialWait time.Duration `koanf:"initial_wait"`
	MaxWait     time.Duration `koanf:"max_wait"`
	Multiplier  float64       `koanf:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  BackendConfig{Model: "claude-haiku"},
		OpenAI:     BackendConfig{Model: "gpt-4o-mini"},
		Gemini:     BackendConfig{Model: "gemini-flash"},
		OpenRouter: BackendConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:     45 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// standardKeys lists the vendor API key variables probed by Discover, in
// priority order.
var standardKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// Discover fills in a provider from the vendors' standard API key variables
// when cfg has no key for its selected provider. getenv is usually os.Getenv.
// It reports whether cfg now names a provider that can be constructed.
func Discover(cfg Config, getenv func(string) string) (Config, bool) {
	if cfg.Validate() == nil {
		return cfg, true
	}
	for _, k := range standardKeys {
		key := getenv(k.env)
		if key == "" {
			continue
		}
		cfg.Provider = k.provider
		cfg.backend(k.provider).APIKey = key
		return cfg, true
	}
	return cfg, false
}

// backend returns the settings block for the named provider, or nil.
func (c *Config) backend(provider string) *BackendConfig {
	switch provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	b := c.backend(c.Provider)
	if b == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if b.APIKey == "" {
		return fmt.Errorf("TUTORLOOP_LLM_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
