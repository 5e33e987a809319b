package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Directory = "/var/log/backup"
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
directory: /var/log/backup
analysis_date: 2024-01-15
log_level: debug
output: json
metrics_file: /var/lib/node_exporter/backuplog.prom
`
	path := writeTempFile(t, "config.yaml", content)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Directory != "/var/log/backup" {
		t.Errorf("Directory = %q, want /var/log/backup", cfg.Directory)
	}
	if cfg.AnalysisDate != "2024-01-15" {
		t.Errorf("AnalysisDate = %q, want 2024-01-15", cfg.AnalysisDate)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	// Unset fields keep their defaults.
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.MaxWarnings != DefaultMaxWarnings {
		t.Errorf("MaxWarnings = %d, want %d", cfg.MaxWarnings, DefaultMaxWarnings)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)

	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "log_level: info\n")

	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("Load() expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "directory: is required") {
		t.Errorf("Load() error = %v, want directory: is required", err)
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "output: json\n")

	cfg, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Directory != "" {
		t.Errorf("Directory = %q, want empty", cfg.Directory)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults with directory",
			mutate: func(*Config) {},
		},
		{
			name:   "explicit date",
			mutate: func(c *Config) { c.AnalysisDate = "2024-01-15" },
		},
		{
			name:    "empty directory",
			mutate:  func(c *Config) { c.Directory = "" },
			wantErr: "directory: is required",
		},
		{
			name:    "bad date layout",
			mutate:  func(c *Config) { c.AnalysisDate = "15/01/2024" },
			wantErr: "analysis_date",
		},
		{
			name:    "impossible date",
			mutate:  func(c *Config) { c.AnalysisDate = "2024-02-30" },
			wantErr: "analysis_date",
		},
		{
			name:    "unknown output",
			mutate:  func(c *Config) { c.Output = "xml" },
			wantErr: "output",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.LogFormat = "logfmt" },
			wantErr: "log_format",
		},
		{
			name:    "negative max warnings",
			mutate:  func(c *Config) { c.MaxWarnings = -1 },
			wantErr: "max_warnings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Date(t *testing.T) {
	now := time.Date(2024, 3, 10, 18, 45, 0, 0, time.Local)

	cfg := validConfig()
	got := cfg.Date(now)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Date() = %v, want %v", got, want)
	}

	cfg.AnalysisDate = "2024-01-15"
	got = cfg.Date(now)
	want = time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Date() = %v, want %v", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Directory != "" {
		t.Errorf("Directory = %q, want empty", cfg.Directory)
	}
}

func TestValidate_Webhook_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{
		Name:    "test-webhook",
		URL:     "https://example.com/webhook",
		Trigger: WebhookTriggerOnIssues,
		Timeout: 10 * time.Second,
	}}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_ValidHTTP(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "http://localhost:8080/webhook"}}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_MissingURL(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{Name: "no-url", Trigger: WebhookTriggerOnIssues}}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() expected error for missing URL")
	}
	if !strings.Contains(err.Error(), "webhooks[0].url") {
		t.Errorf("Validate() error = %v, want webhooks[0].url", err)
	}
}

func TestValidate_Webhook_InvalidScheme(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "ftp://example.com/webhook"}}

	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for non-http scheme")
	}
}

func TestValidate_Webhook_InvalidTrigger(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/webhook", Trigger: "invalid_trigger"}}

	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid trigger")
	}
}

func TestValidate_Webhook_AllTriggers(t *testing.T) {
	triggers := []WebhookTrigger{
		WebhookTriggerOnIssues,
		WebhookTriggerAlways,
		WebhookTriggerNever,
	}

	for _, trigger := range triggers {
		cfg := validConfig()
		cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/webhook", Trigger: trigger}}
		if err := Validate(cfg); err != nil {
			t.Errorf("Validate() with trigger %q error = %v", trigger, err)
		}
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/webhook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnIssues {
		t.Errorf("Trigger = %q, want %q", cfg.Webhooks[0].Trigger, WebhookTriggerOnIssues)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestValidate_Webhook_TokenFromEnv(t *testing.T) {
	t.Setenv("BACKUP_HOOK_TOKEN", "s3cret")

	cfg := validConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/webhook", Token: "${BACKUP_HOOK_TOKEN}"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Token != "s3cret" {
		t.Errorf("Token = %q, want s3cret", cfg.Webhooks[0].Token)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_TOKEN", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"literal", "literal"},
		{"${TEST_TOKEN}", "value"},
		{"$TEST_TOKEN", "value"},
		{"$UNSET_TOKEN_FOR_TEST", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.in); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
directory: /var/log/backup
webhooks:
  - name: ops
    url: https://hooks.example.com/backup
    trigger: always
    timeout: 5s
`
	path := writeTempFile(t, "config.yaml", content)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Webhooks) != 1 {
		t.Fatalf("Webhooks = %d, want 1", len(cfg.Webhooks))
	}
	wh := cfg.Webhooks[0]
	if wh.Name != "ops" || wh.Trigger != WebhookTriggerAlways || wh.Timeout != 5*time.Second {
		t.Errorf("webhook = %+v", wh)
	}
}
