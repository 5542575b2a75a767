package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where smartdocs stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Secret signs access tokens
	Secret string

	// AI configuration
	AIProvider string // SMARTDOCS_AI_PROVIDER: gemini, openai (default: gemini)
	AIAPIKey   string // SMARTDOCS_AI_API_KEY
	AIBaseURL  string // SMARTDOCS_AI_BASE_URL
	AIModel    string // SMARTDOCS_AI_MODEL (default: gemini-2.0-flash)
	// AITimeout bounds a single model call. Zero disables the bound,
	// matching the legacy behavior of waiting on the provider indefinitely.
	AITimeout time.Duration // SMARTDOCS_AI_TIMEOUT
	// AIMaxConcurrent limits in-flight model calls across all requests.
	AIMaxConcurrent int64 // SMARTDOCS_AI_MAX_CONCURRENT (default: 8)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an API key or a self-hosted base URL is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != "" || p.AIBaseURL != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads AI configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIProvider = getEnvOrDefault("SMARTDOCS_AI_PROVIDER", "gemini")
	p.AIAPIKey = os.Getenv("SMARTDOCS_AI_API_KEY")
	p.AIBaseURL = os.Getenv("SMARTDOCS_AI_BASE_URL")
	p.AIModel = getEnvOrDefault("SMARTDOCS_AI_MODEL", "gemini-2.0-flash")
	if v := os.Getenv("SMARTDOCS_AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.AITimeout = d
		}
	}
	if p.AIMaxConcurrent == 0 {
		p.AIMaxConcurrent = 8
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/smartdocs"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("smartdocs_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
