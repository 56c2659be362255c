// Package config provides server configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	CatalogURL  string
	SandboxURL  string // "" = simulate runs through the LLM
	SessionTTL  time.Duration
	QuietWindow time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("DSACOACH_PORT", "8080"),
		FrontendURL: getEnv("DSACOACH_FRONTEND_URL", ""),
		DBPath:      getEnv("DSACOACH_DB_PATH", "./data/dsacoach.db"),
		CatalogURL:  getEnv("DSACOACH_CATALOG_URL", ""),
		SandboxURL:  getEnv("DSACOACH_SANDBOX_URL", ""),
		SessionTTL:  getEnvDuration("DSACOACH_SESSION_TTL", 2*time.Hour),
		QuietWindow: getEnvDuration("DSACOACH_QUIET_WINDOW", 3*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("DSACOACH_PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DSACOACH_DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("DSACOACH_SESSION_TTL must be positive")
	}
	if c.QuietWindow <= 0 {
		return fmt.Errorf("DSACOACH_QUIET_WINDOW must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are read as seconds.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
