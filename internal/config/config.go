package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the storefront client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend API (reached through the same-origin proxy in deployed setups).
	APIBaseURL string `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8000"`

	// Directory holding persisted credentials. Empty means the platform
	// user-config dir is used.
	StateDir string `env:"STOREFRONT_STATE_DIR" envDefault:""`

	// Payment redirect callbacks handed to the backend at checkout.
	ReturnURL string `env:"STOREFRONT_RETURN_URL" envDefault:"http://localhost:3000/payment/success"`
	CancelURL string `env:"STOREFRONT_CANCEL_URL" envDefault:"http://localhost:3000/payment/cancel"`

	// HTTP transport
	HTTPTimeoutSecs int `env:"HTTP_TIMEOUT_SECS" envDefault:"30"`
	HTTPMaxRetries  int `env:"HTTP_MAX_RETRIES" envDefault:"3"`

	// Circuit breaker
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBIntervalSecs int     `env:"CB_INTERVAL_SECS" envDefault:"60"`
	CBTimeoutSecs  int     `env:"CB_TIMEOUT_SECS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.HTTPTimeoutSecs < 1 {
		return fmt.Errorf("invalid HTTP timeout: %d", c.HTTPTimeoutSecs)
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("invalid HTTP max retries: %d", c.HTTPMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("invalid circuit breaker failure ratio: %f", c.CBFailureRatio)
	}
	return nil
}

// ResolveStateDir returns the directory for persisted client state, creating
// it if needed. Defaults to <user-config-dir>/storefront.
func (c *Config) ResolveStateDir() (string, error) {
	dir := c.StateDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, "storefront")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}
