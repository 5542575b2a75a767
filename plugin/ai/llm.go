package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// GenerateResult is the raw model output plus timing metadata.
type GenerateResult struct {
	Text     string
	Duration time.Duration
}

// LLMService is the generative model interface consumed by the
// conversation orchestrator and the document generator.
type LLMService interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string) (*GenerateResult, error)
}

type llmService struct {
	client *openai.Client
	config *Config
}

// NewLLMService creates a client against the configured OpenAI-compatible
// endpoint.
func NewLLMService(cfg *Config) (LLMService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &llmService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

func (s *llmService) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty chat response")
	}

	return &GenerateResult{
		Text:     resp.Choices[0].Message.Content,
		Duration: time.Since(start),
	}, nil
}

// IsAuthError reports whether a provider failure looks like an API key
// misconfiguration. Used for operator-facing logging only; the end user
// sees the same generic fallback either way.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "invalid authentication")
}
