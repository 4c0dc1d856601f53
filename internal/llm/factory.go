package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerpilot/careerpilot/internal/store"
)

// NewProvider builds the configured provider and wraps it so that a call
// passes timeout, then retry, then logging before reaching the vendor.
// eventRepo and log may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}

	base, err := vendorProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	var p Provider = WithLogging(base, cfg.Provider, eventRepo, log)
	p = WithRetry(p, cfg.Retry, log)
	return WithTimeout(p, cfg.Timeout), nil
}

func vendorProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
