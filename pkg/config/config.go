package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Read parses a configuration file over the defaults without validating it,
// so that command-line overrides can be applied first.
func Read(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills webhook defaults.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return describeValidationError(err)
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// describeValidationError turns validator output into "field: problem" messages.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: is required", field))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s: %q must be a date formatted as %s", field, fe.Value(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q must be one of [%s]", field, fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %q check", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validateWebhook(wh *WebhookConfig) error {
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnIssues
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
