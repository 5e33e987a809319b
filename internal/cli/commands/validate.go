package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
	"github.com/ccollicutt/backuplog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration",
		Long: `Validate the effective configuration without analyzing any log.

Checks:
  - YAML syntax
  - Required fields and allowed values
  - Webhook URLs and triggers
  - Log files present for the analysis date (warning only)`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	addConfigFlags(cmd)
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := configArg(args)
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	if configPath != "" {
		fmt.Fprintf(out, "Validating %s...\n", configPath)
	}

	cfg, err := resolveConfig(ctx, cmd, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	date := cfg.Date(time.Now())

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Directory:     %s\n", cfg.Directory)
	fmt.Fprintf(out, "  Analysis date: %s\n", date.Format(time.DateOnly))
	fmt.Fprintf(out, "  Output:        %s\n", cfg.Output)
	fmt.Fprintf(out, "  Webhooks:      %d\n", len(cfg.Webhooks))
	if cfg.MetricsFile != "" {
		fmt.Fprintf(out, "  Metrics file:  %s\n", cfg.MetricsFile)
	}

	// Check that the logs exist (warnings only)
	fmt.Fprintf(out, "\nLog files:\n")
	for _, src := range analyzer.DefaultSources() {
		pattern := src.Pattern(date)
		path, found, err := parser.FindOne(cfg.Directory, pattern)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  Warning: %s: %v\n", src.Name, err)
		case !found:
			fmt.Fprintf(out, "  Warning: %s: no file matches %s\n", src.Name, pattern)
		default:
			fmt.Fprintf(out, "  - %s: %s\n", src.Name, filepath.Base(path))
		}
	}

	return nil
}
