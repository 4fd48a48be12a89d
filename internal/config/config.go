// Package config reads kickstats settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	apiURLEnvVar   = "KICKSTATS_API_URL"
	homeEnvVar     = "KICKSTATS_HOME"
	logLevelEnvVar = "KICKSTATS_LOG_LEVEL"
	timeoutEnvVar  = "KICKSTATS_HTTP_TIMEOUT"

	defaultAPIURL  = "http://localhost:8000"
	defaultTimeout = "30s"
)

// Config holds runtime settings.
type Config struct {
	APIURL   string
	DataDir  string
	LogLevel string
	Timeout  time.Duration

	rawTimeout string
}

// LogFile is where the TUI writes its log, since it owns the terminal.
func (c Config) LogFile() string {
	return filepath.Join(c.DataDir, "kickstats.log")
}

// Load reads an optional .env file and then the environment.
// A missing .env is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:     GetEnv(apiURLEnvVar, defaultAPIURL),
		DataDir:    GetEnv(homeEnvVar, ""),
		LogLevel:   GetEnv(logLevelEnvVar, "info"),
		rawTimeout: GetEnv(timeoutEnvVar, defaultTimeout),
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".kickstats")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the API URL and parses the timeout.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: %s: invalid URL %q", apiURLEnvVar, c.APIURL)
	}
	if c.rawTimeout != "" {
		d, err := time.ParseDuration(c.rawTimeout)
		if err != nil {
			return fmt.Errorf("config: %s: %w", timeoutEnvVar, err)
		}
		c.Timeout = d
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: %s must be positive", timeoutEnvVar)
	}
	return nil
}

// GetEnv returns the value of envVar, or defaultValue when it is unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
