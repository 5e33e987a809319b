// Package cli provides the command-line interface for backuplog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/backuplog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return execute(NewRootCommand(), os.Args[1:])
}

func execute(rootCmd *cobra.Command, args []string) int {
	commands.ExitCode = 0

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "backuplog",
		Short: "Summarize daily backup logs",
		Long: `backuplog reads the UTF-16LE logs written by the nightly backup job and
reports, per source, when the backup started and ended and when the
offsite rclone transfer began.

A missing log or a log without any timestamped line is reported as an issue.

Every flag can also be set through the environment, e.g.
BACKUPLOG_DIRECTORY=/srv/backup/logs or BACKUPLOG_LOG_LEVEL=debug.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
