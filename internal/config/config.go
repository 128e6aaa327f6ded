package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"finadmin/internal/logger"
)

type Config struct {
	// Remote API
	APIBaseURL     string
	RequestTimeout time.Duration

	// CredentialsFile is a JSON credential store consulted after the
	// FINADMIN_API_TOKEN environment variable.
	CredentialsFile string

	// Google Sheets export (optional). An empty worksheet means one tab per
	// screen, named after it.
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// FromEnv reads the configuration without validating it, so that
// command-line overrides can be applied first.
func FromEnv() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("FINADMIN_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FINADMIN_REQUEST_TIMEOUT is not a duration: %w", err)
	}

	config := &Config{
		APIBaseURL:           getEnv("FINADMIN_API_URL", ""),
		CredentialsFile:      getEnv("FINADMIN_CREDENTIALS_FILE", ""),
		RequestTimeout:       timeout,
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", ""),
		LogLevel:             getEnv("LOG_LEVEL", "warn"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("FINADMIN_API_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("FINADMIN_API_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("FINADMIN_API_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("FINADMIN_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
