// Package config loads service configuration from environment variables. A
// .env file is honored in local development; deployed environments set
// variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs at startup.
type Config struct {
	Port           string
	APIKey         string
	Model          string
	BaseURL        string
	SessionTimeout time.Duration
	LogLevel       string
}

// Load reads configuration from the environment, loading .env first if
// present (existing variables win).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		APIKey:         cleanKey(os.Getenv("OPENAI_API_KEY")),
		Model:          envOr("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL:        envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SessionTimeout: time.Hour,
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("SESSION_TIMEOUT"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT %q: %w", raw, err)
		}
		cfg.SessionTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// Validate checks that the dialogue model can be reached with the loaded
// configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if !strings.HasPrefix(c.APIKey, "sk-") {
		return fmt.Errorf("invalid OPENAI_API_KEY format (must start with 'sk-')")
	}
	return nil
}

// Check is one line of the startup environment report.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Diagnostics reports on the environment without revealing secrets. Keys
// pasted with surrounding quotes are a recurring deployment mistake, so the
// report calls that out explicitly.
func Diagnostics() []Check {
	checks := []Check{
		{Name: "PORT", OK: true, Detail: envOr("PORT", "not set (default 8080)")},
		{Name: "SESSION_TIMEOUT", OK: true, Detail: envOr("SESSION_TIMEOUT", "not set (default 3600s)")},
	}

	raw := os.Getenv("OPENAI_API_KEY")
	switch {
	case raw == "":
		checks = append(checks, Check{Name: "OPENAI_API_KEY", OK: false, Detail: "not set"})
	case strings.HasPrefix(raw, `"`) || strings.HasPrefix(raw, "'"):
		checks = append(checks, Check{
			Name:   "OPENAI_API_KEY",
			OK:     false,
			Detail: fmt.Sprintf("set (length %d) but wrapped in quotes; remove them", len(raw)),
		})
	case !strings.HasPrefix(cleanKey(raw), "sk-"):
		checks = append(checks, Check{
			Name:   "OPENAI_API_KEY",
			OK:     false,
			Detail: fmt.Sprintf("set (length %d) but does not start with 'sk-'", len(raw)),
		})
	default:
		checks = append(checks, Check{
			Name:   "OPENAI_API_KEY",
			OK:     true,
			Detail: fmt.Sprintf("set (length %d)", len(raw)),
		})
	}

	return checks
}

// cleanKey strips whitespace and stray quotes that sneak in when keys are
// pasted into deployment dashboards.
func cleanKey(key string) string {
	return strings.Trim(strings.TrimSpace(key), `"'`)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
