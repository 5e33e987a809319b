// Package config provides configuration loading and validation for backuplog.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Directory holds the daily backup logs.
	Directory string `yaml:"directory" validate:"required"`

	// AnalysisDate selects the logs to analyze (YYYY-MM-DD).
	// Empty means the current local date.
	AnalysisDate string `yaml:"analysis_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// LogLevel is the zerolog level name.
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	// LogFormat selects json or console log output.
	LogFormat string `yaml:"log_format,omitempty" validate:"omitempty,oneof=json console"`

	// Output is the report format (text|json).
	Output string `yaml:"output,omitempty" validate:"omitempty,oneof=text json"`

	// MaxWarnings bounds the malformed lines kept per source in the report.
	MaxWarnings int `yaml:"max_warnings,omitempty" validate:"gte=0"`

	// MetricsFile is an optional Prometheus textfile collector target.
	MetricsFile string `yaml:"metrics_file,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"dive"`
}

// Date returns the analysis date, defaulting to today in the local zone.
// Call Validate first; an unparseable date falls back to today as well.
func (c *Config) Date(now time.Time) time.Time {
	if c.AnalysisDate != "" {
		if d, err := time.ParseInLocation(time.DateOnly, c.AnalysisDate, time.Local); err == nil {
			return d
		}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when a source is missing or empty (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" validate:"required,url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
