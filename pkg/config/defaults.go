package config

import (
	"time"
)

// Default values for configuration.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultOutput         = "text"
	DefaultMaxWarnings    = 100
	DefaultWebhookTimeout = 10 * time.Second
)

// EnvPrefix prefixes environment overrides, e.g. BACKUPLOG_DIRECTORY.
const EnvPrefix = "BACKUPLOG"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Output:      DefaultOutput,
		MaxWarnings: DefaultMaxWarnings,
	}
}
