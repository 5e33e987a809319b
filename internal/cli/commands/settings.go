package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/backuplog/internal/logging"
	"github.com/ccollicutt/backuplog/pkg/config"
)

// Keys shared by flags, environment variables and the config file.
const (
	keyDirectory   = "directory"
	keyDate        = "date"
	keyLogLevel    = "log-level"
	keyLogFormat   = "log-format"
	keyOutput      = "output"
	keyMaxWarnings = "max-warnings"
	keyMetricsFile = "metrics-file"
)

// addConfigFlags registers the flags every command that reads a
// configuration accepts.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keyDirectory, "d", "", "Directory holding the daily backup logs")
	cmd.Flags().String(keyDate, "", "Analysis date (YYYY-MM-DD, default today)")
	cmd.Flags().String(keyLogLevel, config.DefaultLogLevel, "Log level (trace|debug|info|warn|error)")
	cmd.Flags().String(keyLogFormat, config.DefaultLogFormat, "Log format (json|console)")
}

// newViper binds the command's flags and BACKUPLOG_* environment variables.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// resolveConfig builds the effective configuration: defaults, then the
// optional config file, then environment variables and explicit flags.
func resolveConfig(ctx context.Context, cmd *cobra.Command, configPath string) (*config.Config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		cfg, err = config.Read(ctx, configPath)
		if err != nil {
			return nil, err
		}
	}

	overrideString(v, keyDirectory, &cfg.Directory)
	overrideString(v, keyDate, &cfg.AnalysisDate)
	overrideString(v, keyLogLevel, &cfg.LogLevel)
	overrideString(v, keyLogFormat, &cfg.LogFormat)
	overrideString(v, keyOutput, &cfg.Output)
	overrideString(v, keyMetricsFile, &cfg.MetricsFile)
	if v.IsSet(keyMaxWarnings) {
		cfg.MaxWarnings = v.GetInt(keyMaxWarnings)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// overrideString replaces *dst when the key was set by flag or environment.
// Flag defaults never override the config file.
func overrideString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

// newCommandLogger logs to the command's error stream.
func newCommandLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logging.NewLogger(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func configArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
