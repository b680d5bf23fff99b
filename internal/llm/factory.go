package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/scenelingo/internal/store"
)

// NewProvider creates the vocabulary Provider selected by cfg, wrapped with
// event logging. A missing credential yields an error wrapping
// ErrNotConfigured.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, observers ...Observer) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo, observers...), nil
}

// NewImageProvider creates the ImageProvider. Images come from Gemini
// whatever the vocabulary provider is; the mock provider serves
// placeholders.
func NewImageProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, observers ...Observer) (ImageProvider, error) {
	if cfg.Provider == "mock" {
		mock := NewMockImageProvider()
		mock.Placeholder = true
		return WithImageLogging(mock, "mock", eventRepo, observers...), nil
	}
	if !cfg.CanGenerateImages() {
		return nil, fmt.Errorf("%w: image generation needs a Gemini API key", ErrNotConfigured)
	}

	p, err := NewGeminiProvider(ctx, cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("initializing gemini image provider: %w", err)
	}
	return WithImageLogging(geminiImages{p}, "gemini", eventRepo, observers...), nil
}

// geminiImages reports the image model as its ModelID.
type geminiImages struct{ *GeminiProvider }

func (g geminiImages) ModelID() string { return g.ImageModelID() }
