package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
	"github.com/ccollicutt/backuplog/pkg/config"
	"github.com/ccollicutt/backuplog/pkg/metrics"
	"github.com/ccollicutt/backuplog/pkg/output"
	"github.com/ccollicutt/backuplog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [config-file]",
		Short: "Summarize the backup logs of a day",
		Long: `Locate the primary and offsite backup logs of a day and report when each
backup started and ended, plus when the offsite rclone transfer began.

Logs are read from the configured directory:
  log_backup_<YYYYMMDD>_*.log       primary backup
  log_backup_ovh_<YYYYMMDD>_*.log   offsite backup

Settings come from the optional config file, BACKUPLOG_* environment
variables and flags, in increasing priority.

Exit codes:
  0 - Every log found with timestamps
  1 - A log is missing or has no timestamped line
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().StringP(keyOutput, "o", config.DefaultOutput, "Output format (text|json)")
	cmd.Flags().Int(keyMaxWarnings, config.DefaultMaxWarnings, "Malformed lines kept per source in the report")
	cmd.Flags().String(keyMetricsFile, "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "List malformed lines and run details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	configPath := configArg(args)
	ctx := commandContext(cmd)

	cfg, err := resolveConfig(ctx, cmd, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	formatter, err := createFormatter(cfg.Output, opts)
	if err != nil {
		return err
	}

	logger := newCommandLogger(cmd, cfg)

	a := analyzer.NewAnalyzer(logger,
		analyzer.WithStreamOptions(analyzer.WithMaxWarnings(cfg.MaxWarnings)))

	started := time.Now()
	result, err := a.Run(ctx, analyzer.AnalysisRequest{
		Directory: cfg.Directory,
		Date:      cfg.Date(started),
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result, configPath, started, time.Now())
	logger = logger.With().Str("run_id", report.RunID).Logger()

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Delivery problems are logged and never change the exit code.
	sendWebhooks(ctx, logger, collectWebhooks(cfg, opts), report)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, report); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Debug().Str("path", cfg.MetricsFile).Msg("metrics written")
	}

	// Set exit code based on results
	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

func createFormatter(format string, opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch format {
	case "text", "":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, logger zerolog.Logger, hooks []config.WebhookConfig, report *output.Report) {
	if len(hooks) == 0 {
		return
	}
	webhook.NewDispatcher(webhook.NewClient(), logger).Dispatch(ctx, hooks, report)
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
