package config

import (
	"fmt"
	"os"
)

// Config represents the daemon-side configuration of the profile store.
type Config struct {
	// Store roots. Empty values mean the built-in defaults
	// ($HOME/.sync/profiles and /etc/sync/profiles).
	PrimaryPath   string `env:"PROFILE_PRIMARY_PATH"`
	SecondaryPath string `env:"PROFILE_SECONDARY_PATH"`

	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error" default:"info"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=text json" default:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Provider defines the interface for configuration management.
// This enables dependency injection and easy testing.
type Provider interface {
	Load() (*Config, error)
	Validate(*Config) error
	LoadFromEnv() (*Config, error)
}

// Loader implements the Provider interface
type Loader struct {
	envLoader EnvLoader
}

// EnvLoader defines interface for environment variable loading
// This allows for testing with mock environment variables
type EnvLoader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSEnvLoader implements EnvLoader using os package
type OSEnvLoader struct{}

func (o *OSEnvLoader) Getenv(key string) string {
	return os.Getenv(key)
}

func (o *OSEnvLoader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// NewLoader creates a new configuration loader
func NewLoader() Provider {
	return &Loader{
		envLoader: &OSEnvLoader{},
	}
}

// NewLoaderWithEnv creates a loader with custom environment loader (for testing)
func NewLoaderWithEnv(envLoader EnvLoader) Provider {
	return &Loader{
		envLoader: envLoader,
	}
}

// Load loads configuration from environment variables
func (l *Loader) Load() (*Config, error) {
	return l.LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func (l *Loader) LoadFromEnv() (*Config, error) {
	cfg := &Config{
		PrimaryPath:   l.envLoader.Getenv("PROFILE_PRIMARY_PATH"),
		SecondaryPath: l.envLoader.Getenv("PROFILE_SECONDARY_PATH"),
		LogLevel:      l.getOrDefault("LOG_LEVEL", "info"),
		LogFormat:     l.getOrDefault("LOG_FORMAT", "text"),
		LogFile:       l.envLoader.Getenv("LOG_FILE"),
	}

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) getOrDefault(key, def string) string {
	if v, ok := l.envLoader.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Validate checks the configuration for invalid values
func (l *Loader) Validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", cfg.LogFormat)
	}

	return nil
}
