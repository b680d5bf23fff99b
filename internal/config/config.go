// Package config loads scenelingo settings from defaults, an optional TOML
// file, and SCENELINGO_* environment variables, in that order.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/llm"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application configuration. Fields without a matching
// environment variable keep the value from the file or the defaults.
type Config struct {
	LLM      LLMConfig
	Storage  StorageConfig
	Learning LearningConfig
	Speech   SpeechConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// LLMConfig selects and authenticates the generative providers.
type LLMConfig struct {
	Provider string `env:"SCENELINGO_LLM_PROVIDER"`

	GeminiAPIKey     string `env:"SCENELINGO_GEMINI_API_KEY"`
	GeminiModel      string `env:"SCENELINGO_GEMINI_MODEL"`
	GeminiImageModel string `env:"SCENELINGO_GEMINI_IMAGE_MODEL"`

	AnthropicAPIKey string `env:"SCENELINGO_ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"SCENELINGO_ANTHROPIC_MODEL"`

	OpenAIAPIKey string `env:"SCENELINGO_OPENAI_API_KEY"`
	OpenAIModel  string `env:"SCENELINGO_OPENAI_MODEL"`

	OpenRouterAPIKey string `env:"SCENELINGO_OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"SCENELINGO_OPENROUTER_MODEL"`

	Timeout      time.Duration `env:"SCENELINGO_LLM_TIMEOUT"`
	ImageTimeout time.Duration `env:"SCENELINGO_IMAGE_TIMEOUT"`
}

// StorageConfig selects where the stats record lives. Events always go to
// the SQLite database.
type StorageConfig struct {
	Backend       string `env:"SCENELINGO_STORAGE"`
	DBPath        string `env:"SCENELINGO_DB"`
	RedisAddr     string `env:"SCENELINGO_REDIS_ADDR"`
	RedisPassword string `env:"SCENELINGO_REDIS_PASSWORD"`
	RedisDB       int    `env:"SCENELINGO_REDIS_DB"`
}

// LearningConfig tunes the learner-facing numbers.
type LearningConfig struct {
	DailyGoal int    `env:"SCENELINGO_DAILY_GOAL"`
	ImageDir  string `env:"SCENELINGO_IMAGE_DIR"`
}

// SpeechConfig controls text-to-speech.
type SpeechConfig struct {
	Command  string  `env:"SCENELINGO_SPEECH_COMMAND"`
	Rate     float64 `env:"SCENELINGO_SPEECH_RATE"`
	Disabled bool    `env:"SCENELINGO_SPEECH_DISABLED"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `env:"SCENELINGO_LOG_LEVEL"`
	File  string `env:"SCENELINGO_LOG_FILE"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `env:"SCENELINGO_METRICS_ADDR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := llm.DefaultConfig()
	return &Config{
		LLM: LLMConfig{
			GeminiModel:      d.Gemini.Model,
			GeminiImageModel: d.Gemini.ImageModel,
			AnthropicModel:   d.Anthropic.Model,
			OpenAIModel:      d.OpenAI.Model,
			OpenRouterModel:  d.OpenRouter.Model,
			Timeout:          d.Timeout,
			ImageTimeout:     d.ImageTimeout,
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
		Learning: LearningConfig{DailyGoal: 10},
		Speech:   SpeechConfig{Rate: 0.9},
		Log:      LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (missing is fine), a .env file in the working directory (missing is
// fine), and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	fc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	fc.apply(cfg)

	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("SCENELINGO_REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid SCENELINGO_STORAGE: %q (want sqlite or redis)", c.Storage.Backend)
	}

	if c.Learning.DailyGoal < 1 {
		return fmt.Errorf("invalid SCENELINGO_DAILY_GOAL: %d (must be at least 1)", c.Learning.DailyGoal)
	}
	if c.LLM.Timeout <= 0 || c.LLM.ImageTimeout <= 0 {
		return fmt.Errorf("LLM timeouts must be positive")
	}
	if c.Speech.Rate <= 0 || c.Speech.Rate > 4 {
		return fmt.Errorf("invalid SCENELINGO_SPEECH_RATE: %v (must be in (0, 4])", c.Speech.Rate)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid SCENELINGO_LOG_LEVEL: %w", err)
	}
	return nil
}

// ProviderConfig converts the settings into provider configuration and fills
// missing keys from the conventional GEMINI_API_KEY style variables.
func (c *Config) ProviderConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	out.Timeout = c.LLM.Timeout
	out.ImageTimeout = c.LLM.ImageTimeout

	out.Gemini.APIKey = c.LLM.GeminiAPIKey
	out.Gemini.Model = c.LLM.GeminiModel
	out.Gemini.ImageModel = c.LLM.GeminiImageModel
	out.Anthropic.APIKey = c.LLM.AnthropicAPIKey
	out.Anthropic.Model = c.LLM.AnthropicModel
	out.OpenAI.APIKey = c.LLM.OpenAIAPIKey
	out.OpenAI.Model = c.LLM.OpenAIModel
	out.OpenRouter.APIKey = c.LLM.OpenRouterAPIKey
	out.OpenRouter.Model = c.LLM.OpenRouterModel

	out.DiscoverKeys()
	return out
}
