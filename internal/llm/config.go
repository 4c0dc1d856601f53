package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string `toml:"provider"`

	Anthropic  AnthropicConfig  `toml:"anthropic"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Gemini     GeminiConfig     `toml:"gemini"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Retry      RetryConfig      `toml:"retry"`

	// Timeout bounds a single Generate call including retries.
	// Zero means no deadline.
	Timeout time.Duration `toml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `toml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `toml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts"`
	InitialWait time.Duration `toml:"initial_wait"`
	MaxWait     time.Duration `toml:"max_wait"`
	Multiplier  float64       `toml:"multiplier"`
}

// DefaultConfig returns the defaults: Gemini, one attempt per call and no
// deadline. A failed call surfaces to the user once instead of being
// replayed.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ApplyEnv overrides fields from CAREERPILOT_* environment variables.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Provider, "CAREERPILOT_LLM_PROVIDER")

	setFromEnv(&c.Anthropic.APIKey, "CAREERPILOT_ANTHROPIC_API_KEY")
	setFromEnv(&c.Anthropic.Model, "CAREERPILOT_ANTHROPIC_MODEL")

	setFromEnv(&c.OpenAI.APIKey, "CAREERPILOT_OPENAI_API_KEY")
	setFromEnv(&c.OpenAI.Model, "CAREERPILOT_OPENAI_MODEL")
	setFromEnv(&c.OpenAI.BaseURL, "CAREERPILOT_OPENAI_BASE_URL")

	setFromEnv(&c.Gemini.APIKey, "CAREERPILOT_GEMINI_API_KEY")
	setFromEnv(&c.Gemini.Model, "CAREERPILOT_GEMINI_MODEL")

	setFromEnv(&c.OpenRouter.APIKey, "CAREERPILOT_OPENROUTER_API_KEY")
	setFromEnv(&c.OpenRouter.Model, "CAREERPILOT_OPENROUTER_MODEL")

	if v := os.Getenv("CAREERPILOT_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Discover probes the standard API key variables in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) when the configured provider has
// no key, and switches to the first provider whose key is found.
// It reports whether the resulting config is usable.
func (c *Config) Discover() bool {
	if c.Validate() == nil {
		return true
	}

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = "gemini"
		c.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = "openai"
		c.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider = "anthropic"
		c.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider = "openrouter"
		c.OpenRouter.APIKey = k
		return true
	}

	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
