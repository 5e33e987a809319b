package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(report.Summary)
	}

	if !f.opts.Verbose {
		// Line warnings are only listed in verbose mode; counts stay.
		trimmed := *report
		trimmed.Sources = make([]analyzer.SourceResult, len(report.Sources))
		copy(trimmed.Sources, report.Sources)
		for i := range trimmed.Sources {
			trimmed.Sources[i].Warnings = nil
		}
		return encoder.Encode(&trimmed)
	}

	return encoder.Encode(report)
}
