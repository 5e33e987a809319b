// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
)

// Report is the complete analysis output.
type Report struct {
	// RunID identifies this analysis run in logs, metrics and webhooks.
	RunID string `json:"run_id"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Sources contains the per-source findings, in source order.
	Sources []analyzer.SourceResult `json:"sources"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// SourcesChecked is the number of configured sources.
	SourcesChecked int `json:"sources_checked"`

	// SourcesFound is the number of sources whose log file exists.
	SourcesFound int `json:"sources_found"`

	// SourcesMissing is the number of sources without a log file.
	SourcesMissing int `json:"sources_missing"`

	// SourcesEmpty is the number of found sources without any timestamp.
	SourcesEmpty int `json:"sources_empty"`

	// Warnings is the number of malformed timestamp lines.
	Warnings int `json:"warnings"`

	// LinesProcessed is the total number of log lines read.
	LinesProcessed int `json:"lines_processed"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Directory is the analyzed log directory.
	Directory string `json:"directory"`

	// AnalysisDate is the date whose logs were analyzed.
	AnalysisDate time.Time `json:"analysis_date"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.BackupAnalysisResult, configFile string, started, finished time.Time) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Sources: result.Sources,
		Metadata: Metadata{
			ConfigFile:   configFile,
			Directory:    result.Directory,
			AnalysisDate: result.Date,
			AnalyzedAt:   finished,
			Duration:     finished.Sub(started),
		},
		Summary: Summary{
			SourcesChecked: len(result.Sources),
			Warnings:       result.TotalWarnings(),
		},
	}

	for _, src := range result.Sources {
		report.Summary.LinesProcessed += src.LinesRead
		switch {
		case !src.Found:
			report.Summary.SourcesMissing++
		case src.Summary.Start == nil:
			report.Summary.SourcesFound++
			report.Summary.SourcesEmpty++
		default:
			report.Summary.SourcesFound++
		}
	}

	return report
}

// HasIssues returns true if a source is missing or has no timestamped line.
func (r *Report) HasIssues() bool {
	return r.Summary.SourcesMissing > 0 || r.Summary.SourcesEmpty > 0
}
