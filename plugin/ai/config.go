package ai

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hmztgr/smartdocs/internal/profile"
)

// Gemini exposes an OpenAI-compatible chat completions surface; the same
// client covers both providers.
const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	openAIBaseURL = "https://api.openai.com/v1"
)

// Config holds the generative model configuration.
type Config struct {
	Provider string // gemini, openai
	APIKey   string
	BaseURL  string
	Model    string
	// Timeout bounds a single model call; zero means no bound.
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// NewConfigFromProfile creates model config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Provider:    p.AIProvider,
		APIKey:      p.AIAPIKey,
		BaseURL:     p.AIBaseURL,
		Model:       p.AIModel,
		Timeout:     p.AITimeout,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
	if cfg.BaseURL == "" {
		switch cfg.Provider {
		case "openai":
			cfg.BaseURL = openAIBaseURL
		default:
			cfg.BaseURL = geminiBaseURL
		}
	}
	return cfg
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("model API key is required, set SMARTDOCS_AI_API_KEY")
	}
	if c.Model == "" {
		return errors.New("model name is required")
	}
	return nil
}
