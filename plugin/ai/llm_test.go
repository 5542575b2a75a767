package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hmztgr/smartdocs/internal/profile"
)

func TestNewConfigFromProfile_Defaults(t *testing.T) {
	p := &profile.Profile{AIProvider: "gemini", AIAPIKey: "k", AIModel: "gemini-2.0-flash"}
	cfg := NewConfigFromProfile(p)
	require.Equal(t, geminiBaseURL, cfg.BaseURL)
	require.NoError(t, cfg.Validate())

	p.AIProvider = "openai"
	cfg = NewConfigFromProfile(p)
	require.Equal(t, openAIBaseURL, cfg.BaseURL)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Provider: "gemini", Model: "gemini-2.0-flash"}
	require.Error(t, cfg.Validate())

	cfg.APIKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Model = ""
	require.Error(t, cfg.Validate())
}

func TestIsAuthError(t *testing.T) {
	require.False(t, IsAuthError(nil))
	require.False(t, IsAuthError(errors.New("connection refused")))
	require.True(t, IsAuthError(errors.New("Incorrect API key provided")))
	require.True(t, IsAuthError(errors.New("status code 401")))
	require.True(t, IsAuthError(errors.New("invalid authentication credentials")))
}
