package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. The offline mock is not retried.
// eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		// An empty queue fails every call, which drives the fallbacks.
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown model provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, eventRepo, log)
	if cfg.Provider == "mock" {
		return logged, nil
	}
	return WithRetry(logged, cfg.Retry, log), nil
}
