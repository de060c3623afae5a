package generation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/siherrmann/medgraph/helper"
)

// Providers
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config selects and configures the generation provider
type Config struct {
	Provider      string `env:"MEDGRAPH_PROVIDER" envDefault:"auto"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
}

// NewConfigFromEnv reads the generation configuration from the environment,
// loading a .env file first if it exists
func NewConfigFromEnv() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, helper.NewError("load .env", err)
	}

	config := &Config{}
	err = env.Parse(config)
	if err != nil {
		return nil, helper.NewError("parse generation configuration", err)
	}

	return config, nil
}

// ResolvedProvider returns the provider to use. Auto picks the first one with credentials.
func (c *Config) ResolvedProvider() string {
	if c.Provider != "" && c.Provider != ProviderAuto {
		return c.Provider
	}
	switch {
	case c.GeminiAPIKey != "":
		return ProviderGemini
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	default:
		return ProviderNone
	}
}

// NewGenerator creates the configured generator.
// It returns a nil generator without error when no provider is configured.
func NewGenerator(ctx context.Context, config *Config, logger *slog.Logger) (Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		return nil, helper.NewError("generation configuration validation", fmt.Errorf("generation configuration is nil"))
	}

	switch provider := config.ResolvedProvider(); provider {
	case ProviderNone:
		logger.Warn("No generation provider configured, responses use the template")
		return nil, nil
	case ProviderGemini:
		return NewGeminiGenerator(ctx, config.GeminiAPIKey, config.GeminiModel, config.GeminiBaseURL, logger)
	case ProviderOpenAI:
		return NewOpenAIGenerator(config.OpenAIAPIKey, config.OpenAIModel, config.OpenAIBaseURL, logger)
	default:
		return nil, helper.NewError("generation configuration validation", fmt.Errorf("unknown provider %q", provider))
	}
}
