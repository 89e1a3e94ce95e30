package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Options carries the collaborators NewProvider wires into the middleware.
type Options struct {
	// Events receives one record per model call. Optional.
	Events EventRecorder

	Logger *zap.Logger

	// MockResponder answers requests when Provider is "mock".
	MockResponder Responder
}

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware:
//
//	caller → timeout → retry → logging → schema validation → backend
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewResponderProvider(opts.MockResponder)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithSchemaValidation(base)
	p = WithLogging(p, cfg.Provider, opts.Events, opts.Logger)
	p = WithRetry(p, cfg.Retry)
	p = WithTimeout(p, cfg.Timeout)
	return p, nil
}
