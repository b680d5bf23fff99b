package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all generative provider configuration. It is populated by
// internal/config from the config file and SCENELINGO_* environment.
type Config struct {
	// Provider selects the vocabulary provider.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single vocabulary request. Default: 30s.
	Timeout time.Duration

	// ImageTimeout bounds a single image request. Default: 45s.
	ImageTimeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-mini"
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration. Images are always
// generated through Gemini, so its key also gates image generation.
type GeminiConfig struct {
	APIKey     string
	Model      string // Default: "gemini-flash"
	ImageModel string // Default: "gemini-flash-image"
	BaseURL    string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults. Provider is left
// empty so DiscoverKeys can pick one from the environment.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: defaultGeminiModel, ImageModel: defaultGeminiImageModel},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},

		Timeout:      30 * time.Second,
		ImageTimeout: 45 * time.Second,
	}
}

// discoveryOrder lists the conventional key variables probed by
// DiscoverKeys, in priority order. API_KEY is the bare name used by
// hosted Gemini sandboxes.
var discoveryOrder = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", "gemini"},
	{"API_KEY", "gemini"},
	{"OPENAI_API_KEY", "openai"},
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENROUTER_API_KEY", "openrouter"},
}

// DiscoverKeys fills empty API keys from the conventional environment
// variables. When Provider is empty, the first provider with a key wins,
// falling back to "gemini". It reports whether any key was found.
func (c *Config) DiscoverKeys() bool {
	return c.discover(os.Getenv)
}

func (c *Config) discover(getenv func(string) string) bool {
	found := false
	for _, d := range discoveryOrder {
		k := getenv(d.env)
		if k == "" {
			continue
		}
		c.setKey(d.provider, k)
		if c.Provider == "" {
			c.Provider = d.provider
		}
		found = true
	}
	if c.Provider == "" {
		c.Provider = "gemini"
	}
	return found
}

// setKey assigns k when the provider's key is still empty.
func (c *Config) setKey(provider, k string) {
	var dst *string
	switch provider {
	case "gemini":
		dst = &c.Gemini.APIKey
	case "openai":
		dst = &c.OpenAI.APIKey
	case "anthropic":
		dst = &c.Anthropic.APIKey
	case "openrouter":
		dst = &c.OpenRouter.APIKey
	default:
		return
	}
	if *dst == "" {
		*dst = k
	}
}

// HasKey reports whether the selected provider has a credential.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// CanGenerateImages reports whether image generation is available.
func (c Config) CanGenerateImages() bool {
	return c.Provider == "mock" || c.Gemini.APIKey != ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("%w: SCENELINGO_ANTHROPIC_API_KEY is required for the anthropic provider", ErrNotConfigured)
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: SCENELINGO_OPENAI_API_KEY is required for the openai provider", ErrNotConfigured)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: SCENELINGO_GEMINI_API_KEY (or GEMINI_API_KEY) is required for the gemini provider", ErrNotConfigured)
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("%w: SCENELINGO_OPENROUTER_API_KEY is required for the openrouter provider", ErrNotConfigured)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
