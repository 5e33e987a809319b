package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
	"github.com/ccollicutt/backuplog/pkg/config"
	"github.com/ccollicutt/backuplog/pkg/detector"
	"github.com/ccollicutt/backuplog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose common setup issues",
		Long: `Diagnose common setup issues.

This command checks:
- Config file syntax and structure
- Log directory existence and accessibility
- Presence of each backup log for the analysis date
- Encoding and timestamps of each log found
- Webhook configuration

Example:
  backuplog diagnose backuplog.yaml
  backuplog diagnose -v --directory /srv/backup/logs --date 2024-01-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, configArg(args), opts)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(cmd *cobra.Command, configPath string, opts *DiagnoseOptions) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	results := []DiagnosticResult{}

	// 1. Check config file existence
	if configPath != "" {
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == StatusError {
			printDiagnostics(out, results, opts)
			return nil
		}
	}

	// 2. Resolve the effective configuration
	cfg, result := checkConfigResolves(ctx, cmd, configPath)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(out, results, opts)
		return nil
	}

	// 3. Check the log directory
	result = checkDirectory(cfg.Directory)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(out, results, opts)
		return nil
	}

	// 4. Check each source's log
	results = append(results, checkSources(ctx, cfg, time.Now(), opts)...)

	// 5. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(out, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'backuplog detect <log-file> --write-config backuplog.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = StatusError
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'backuplog detect <log-file> --write-config backuplog.yaml' to generate a starter config",
		}
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigResolves(ctx context.Context, cmd *cobra.Command, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Configuration",
	}

	cfg, err := resolveConfig(ctx, cmd, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Invalid configuration: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		case strings.Contains(err.Error(), "directory: is required"):
			result.Suggests = []string{
				"Set directory in the config file, pass --directory or set BACKUPLOG_DIRECTORY",
			}
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = "Configuration is valid"
	result.Details = []string{
		fmt.Sprintf("Directory: %s", cfg.Directory),
		fmt.Sprintf("Analysis date: %s", cfg.Date(time.Now()).Format(time.DateOnly)),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkDirectory(dir string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Log Directory: %s", dir),
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		result.Status = StatusError
		result.Message = "Directory does not exist"
		result.Suggests = []string{"Check the directory setting"}
	case err != nil:
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access directory: %v", err)
		result.Suggests = []string{"Check directory permissions"}
	case !info.IsDir():
		result.Status = StatusError
		result.Message = "Path is a file, not a directory"
	default:
		result.Status = StatusOK
		result.Message = "Directory exists"
	}
	return result
}

func checkSources(ctx context.Context, cfg *config.Config, now time.Time, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	date := cfg.Date(now)
	d := detector.New(detector.WithSampleSize(10))

	for _, src := range analyzer.DefaultSources() {
		pattern := src.Pattern(date)
		result := DiagnosticResult{
			Check: fmt.Sprintf("Source %s: %s", src.Name, pattern),
		}

		path, found, err := parser.FindOne(cfg.Directory, pattern)
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot scan directory: %v", err)
			results = append(results, result)
			continue
		}
		if !found {
			result.Status = StatusWarning
			result.Message = "No log file for this date"
			result.Suggests = []string{
				"Check that the backup ran on " + date.Format(time.DateOnly),
				"Use --date to check another day",
			}
			results = append(results, result)
			continue
		}

		det, err := d.DetectFromFile(ctx, path)
		if err != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot read %s: %v", filepath.Base(path), err)
			results = append(results, result)
			continue
		}

		result.Details = []string{
			fmt.Sprintf("File: %s", filepath.Base(path)),
			fmt.Sprintf("Encoding: %s", det.Encoding.Name),
		}

		switch {
		case !det.Encoding.Expected || !det.HasMatch():
			result.Status = StatusError
			result.Message = det.Note
			if det.FailedLine != "" {
				result.Details = append(result.Details, "Sample line:", truncate(det.FailedLine, 80))
			}
		case det.ParsedLines < det.SampledLines/2:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("Only %d/%d sample lines have timestamps", det.ParsedLines, det.SampledLines)
			if det.FailedLine != "" {
				result.Details = append(result.Details, "Sample line:", truncate(det.FailedLine, 80))
			}
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("%d/%d sample lines have timestamps", det.ParsedLines, det.SampledLines)
			if opts.Verbose && det.SampleLine != "" {
				result.Details = append(result.Details, "Sample match:", truncate(det.SampleLine, 80))
			}
		}

		results = append(results, result)
	}

	return results
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== backuplog Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nSetup is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nSetup looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := webhookName(wh)
		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		// Config validation already checked URL and trigger.
		if wh.Token != "" && strings.HasPrefix(wh.URL, "http://") {
			result.Status = StatusWarning
			result.Message = "Bearer token is sent over plain HTTP"
			result.Suggests = []string{"Use an https URL"}
		} else {
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
