package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/mathbank/internal/events"
)

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware chain: caller → retry → event logging → base.
func NewProvider(ctx context.Context, cfg Config, repo events.Repo, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo == nil {
		repo = events.NopRepo{}
	}

	logged := WithLogging(base, repo)
	return WithRetry(logged, cfg.Retry, logger), nil
}

// NewProviderFromEnv discovers provider configuration from the environment
// (MATHBANK_* variables first, then standard API key variables) and builds
// the provider.
func NewProviderFromEnv(ctx context.Context, repo events.Repo, logger *slog.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, repo, logger)
}
