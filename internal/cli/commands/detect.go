package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/backuplog/pkg/config"
	"github.com/ccollicutt/backuplog/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Check that a log file can be analyzed",
		Long: `Inspect a single log file: detect its text encoding and count the sampled
lines that start with a "DD/MM/YYYY HH:MM:SS: " timestamp.

Use it on a file that analyze reports as having no timestamped line.
Optionally writes a starter config pointing at the file's directory.

Example:
  backuplog detect /srv/backup/logs/log_backup_20240115_0200.log
  backuplog detect -w backuplog.yaml /srv/backup/logs/log_backup_20240115_0200.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile)
	default:
		return outputDetectText(out, result, logFile)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string) error {
	fmt.Fprintln(w, "=== Backup Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Encoding: %s", result.Encoding.Name)
	if result.HasBOM {
		fmt.Fprint(w, " (BOM)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d (%.1f%%)\n", result.ParsedLines, result.Confidence()*100)
	fmt.Fprintln(w)

	if result.SampleLine != "" {
		fmt.Fprintf(w, "Sample match:\n  %s\n", truncate(result.SampleLine, 80))
	}
	if result.FailedLine != "" {
		fmt.Fprintf(w, "Sample without timestamp:\n  %s\n", truncate(result.FailedLine, 80))
	}

	if result.Note != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Note: %s\n", result.Note)
	}

	return nil
}

// JSONDetectOutput represents the detect command's JSON output.
type JSONDetectOutput struct {
	File         string  `json:"file"`
	Encoding     string  `json:"encoding"`
	BOM          bool    `json:"bom"`
	SampledLines int     `json:"sampled_lines"`
	ParsedLines  int     `json:"parsed_lines"`
	Confidence   float64 `json:"confidence"`
	SampleLine   string  `json:"sample_line,omitempty"`
	FailedLine   string  `json:"failed_line,omitempty"`
	Note         string  `json:"note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(JSONDetectOutput{
		File:         logFile,
		Encoding:     result.Encoding.Name,
		BOM:          result.HasBOM,
		SampledLines: result.SampledLines,
		ParsedLines:  result.ParsedLines,
		Confidence:   result.Confidence(),
		SampleLine:   result.SampleLine,
		FailedLine:   result.FailedLine,
		Note:         result.Note,
	})
}

// writeStarterConfig writes a config whose directory is the log file's.
func writeStarterConfig(w io.Writer, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	dir, err := filepath.Abs(filepath.Dir(logFile))
	if err != nil {
		return fmt.Errorf("resolving log directory: %w", err)
	}

	data, err := generateStarterConfig(dir)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig renders the defaults for dir as YAML.
func generateStarterConfig(dir string) ([]byte, error) {
	cfg := config.DefaultConfig()
	cfg.Directory = dir

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	header := "# backuplog configuration\n" +
		"# analysis_date: 2024-01-15   # defaults to today\n" +
		"# metrics_file: /var/lib/node_exporter/backuplog.prom\n\n"
	return append([]byte(header), body...), nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
