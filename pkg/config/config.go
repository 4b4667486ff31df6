// Package config loads runtime settings from a .env file and the
// environment, plus the MCP server manifest from disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIKey      = "ANTHROPIC_API_KEY"
	EnvModel       = "MCPCHAT_MODEL"
	EnvMaxTokens   = "MCPCHAT_MAX_TOKENS"
	EnvLogLevel    = "MCPCHAT_LOG_LEVEL"
	EnvServersFile = "MCPCHAT_SERVERS"
)

const (
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 1024
	defaultProvider  = "anthropic"
	defaultLogLevel  = "info"
)

// Config stores the coarse grained runtime settings for one chat session.
type Config struct {
	APIKey      string
	Provider    string
	Model       string
	MaxTokens   int
	LogLevel    string
	ServersFile string
}

// Load reads a .env file when present, then the environment, and validates
// the result. A missing API key is a configuration error and fatal for
// startup.
func Load() (*Config, error) {
	// A missing .env is fine; explicit environment always wins because
	// godotenv never overrides existing variables.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Provider:    defaultProvider,
		Model:       envOr(EnvModel, defaultModel),
		MaxTokens:   defaultMaxTokens,
		LogLevel:    envOr(EnvLogLevel, defaultLogLevel),
		ServersFile: strings.TrimSpace(os.Getenv(EnvServersFile)),
	}

	if raw := strings.TrimSpace(os.Getenv(EnvMaxTokens)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", EnvMaxTokens, err)
		}
		cfg.MaxTokens = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces minimal structural guarantees.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s is not set", EnvAPIKey)
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model name is empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive: %d", c.MaxTokens)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// BundledWeatherServerCommand locates the weather server binary shipped next
// to the mcpchat executable, falling back to PATH lookup.
func BundledWeatherServerCommand() string {
	const name = "weather-server"
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return name
}
