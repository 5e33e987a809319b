// Package analyzer derives backup start/end summaries from daily backup logs.
package analyzer

import (
	"time"
)

// AnalysisRequest identifies the logs to analyze.
type AnalysisRequest struct {
	// Directory holds the daily backup logs.
	Directory string

	// Date selects the logs by the date embedded in their file names.
	// Only the calendar date is used.
	Date time.Time
}

// SourceLogSummary holds the timestamps derived from one backup log.
// A nil field means no line produced it.
type SourceLogSummary struct {
	// Start is the timestamp of the first line that parsed.
	Start *time.Time `json:"start"`

	// End is the timestamp of the last line that parsed.
	End *time.Time `json:"end"`

	// Marker is the timestamp of the first parsed line containing the
	// source's marker text. Always nil for sources without a marker.
	Marker *time.Time `json:"marker,omitempty"`
}

// IsEmpty returns true if no timestamp was found.
func (s SourceLogSummary) IsEmpty() bool {
	return s.Start == nil && s.End == nil && s.Marker == nil
}

// LineWarning records a line whose leading field is not a valid timestamp.
type LineWarning struct {
	// LineNum is the 1-based line number.
	LineNum int `json:"line"`

	// Text is the raw line.
	Text string `json:"text"`

	// Err is the parse failure.
	Err error `json:"-"`
}

// SourceResult is the outcome of analyzing one backup source.
type SourceResult struct {
	// Name identifies the source (primary, offsite).
	Name string `json:"name"`

	// Pattern is the file name glob used to locate the log.
	Pattern string `json:"pattern"`

	// Found is false when no file matched Pattern.
	Found bool `json:"found"`

	// File is the analyzed log path, empty when not found.
	File string `json:"file,omitempty"`

	// Summary holds the derived timestamps.
	Summary SourceLogSummary `json:"summary"`

	// LinesRead is the number of lines scanned.
	LinesRead int `json:"lines_read"`

	// WarningCount is the number of lines that could not be parsed.
	WarningCount int `json:"warning_count"`

	// Warnings lists the first unparseable lines, up to the analyzer's limit.
	Warnings []LineWarning `json:"warnings,omitempty"`
}

// BackupAnalysisResult aggregates one SourceResult per configured source.
type BackupAnalysisResult struct {
	// Directory is the analyzed directory.
	Directory string `json:"directory"`

	// Date is the analysis date at midnight.
	Date time.Time `json:"date"`

	// Sources holds one entry per source, in configuration order.
	Sources []SourceResult `json:"sources"`
}

// Source returns the result for the named source, or nil.
func (r *BackupAnalysisResult) Source(name string) *SourceResult {
	for i := range r.Sources {
		if r.Sources[i].Name == name {
			return &r.Sources[i]
		}
	}
	return nil
}

// TotalWarnings returns the number of unparseable lines across sources.
func (r *BackupAnalysisResult) TotalWarnings() int {
	total := 0
	for _, src := range r.Sources {
		total += src.WarningCount
	}
	return total
}
