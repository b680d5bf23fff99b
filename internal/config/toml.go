package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys stay nil
// and leave the defaults alone.
type FileConfig struct {
	LLM      LLMFile      `toml:"llm"`
	Storage  StorageFile  `toml:"storage"`
	Learning LearningFile `toml:"learning"`
	Speech   SpeechFile   `toml:"speech"`
	Log      LogFile      `toml:"log"`
	Metrics  MetricsFile  `toml:"metrics"`
}

// LLMFile maps the [llm] table.
type LLMFile struct {
	Provider         *string   `toml:"provider"`
	GeminiAPIKey     *string   `toml:"gemini-api-key"`
	GeminiModel      *string   `toml:"gemini-model"`
	GeminiImageModel *string   `toml:"gemini-image-model"`
	AnthropicAPIKey  *string   `toml:"anthropic-api-key"`
	AnthropicModel   *string   `toml:"anthropic-model"`
	OpenAIAPIKey     *string   `toml:"openai-api-key"`
	OpenAIModel      *string   `toml:"openai-model"`
	OpenRouterAPIKey *string   `toml:"openrouter-api-key"`
	OpenRouterModel  *string   `toml:"openrouter-model"`
	Timeout          *duration `toml:"timeout"`
	ImageTimeout     *duration `toml:"image-timeout"`
}

// StorageFile maps the [storage] table.
type StorageFile struct {
	Backend       *string `toml:"backend"`
	DB            *string `toml:"db"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
}

// LearningFile maps the [learning] table.
type LearningFile struct {
	DailyGoal *int    `toml:"daily-goal"`
	ImageDir  *string `toml:"image-dir"`
}

// SpeechFile maps the [speech] table.
type SpeechFile struct {
	Command  *string  `toml:"command"`
	Rate     *float64 `toml:"rate"`
	Disabled *bool    `toml:"disabled"`
}

// LogFile maps the [log] table.
type LogFile struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// MetricsFile maps the [metrics] table.
type MetricsFile struct {
	Addr *string `toml:"addr"`
}

// duration decodes TOML strings such as "30s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (f FileConfig) apply(c *Config) {
	setString(&c.LLM.Provider, f.LLM.Provider)
	setString(&c.LLM.GeminiAPIKey, f.LLM.GeminiAPIKey)
	setString(&c.LLM.GeminiModel, f.LLM.GeminiModel)
	setString(&c.LLM.GeminiImageModel, f.LLM.GeminiImageModel)
	setString(&c.LLM.AnthropicAPIKey, f.LLM.AnthropicAPIKey)
	setString(&c.LLM.AnthropicModel, f.LLM.AnthropicModel)
	setString(&c.LLM.OpenAIAPIKey, f.LLM.OpenAIAPIKey)
	setString(&c.LLM.OpenAIModel, f.LLM.OpenAIModel)
	setString(&c.LLM.OpenRouterAPIKey, f.LLM.OpenRouterAPIKey)
	setString(&c.LLM.OpenRouterModel, f.LLM.OpenRouterModel)
	if f.LLM.Timeout != nil {
		c.LLM.Timeout = f.LLM.Timeout.Duration
	}
	if f.LLM.ImageTimeout != nil {
		c.LLM.ImageTimeout = f.LLM.ImageTimeout.Duration
	}

	setString(&c.Storage.Backend, f.Storage.Backend)
	setString(&c.Storage.DBPath, f.Storage.DB)
	setString(&c.Storage.RedisAddr, f.Storage.RedisAddr)
	setString(&c.Storage.RedisPassword, f.Storage.RedisPassword)
	if f.Storage.RedisDB != nil {
		c.Storage.RedisDB = *f.Storage.RedisDB
	}

	if f.Learning.DailyGoal != nil {
		c.Learning.DailyGoal = *f.Learning.DailyGoal
	}
	setString(&c.Learning.ImageDir, f.Learning.ImageDir)

	setString(&c.Speech.Command, f.Speech.Command)
	if f.Speech.Rate != nil {
		c.Speech.Rate = *f.Speech.Rate
	}
	if f.Speech.Disabled != nil {
		c.Speech.Disabled = *f.Speech.Disabled
	}

	setString(&c.Log.Level, f.Log.Level)
	setString(&c.Log.File, f.Log.File)
	setString(&c.Metrics.Addr, f.Metrics.Addr)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
