package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/backuplog/pkg/analyzer"
)

// DisplayLayout renders log timestamps in the logs' own day-first order.
const DisplayLayout = "02/01/2006 15:04:05"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type textStyles struct {
	header  lipgloss.Style
	source  lipgloss.Style
	ok      lipgloss.Style
	missing lipgloss.Style
	label   lipgloss.Style
}

// newTextStyles binds styles to w so colors are dropped when w is not a terminal.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		header:  r.NewStyle().Bold(true),
		source:  r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("42")),
		missing: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "backuplog %s: %d/%d sources found, %d without timestamps, %d warnings\n",
		report.Metadata.AnalysisDate.Format(time.DateOnly),
		report.Summary.SourcesFound,
		report.Summary.SourcesChecked,
		report.Summary.SourcesEmpty,
		report.Summary.Warnings)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	styles := newTextStyles(w)

	// Header
	fmt.Fprintln(w, styles.header.Render(fmt.Sprintf("=== Backup Log Analysis %s ===",
		report.Metadata.AnalysisDate.Format(time.DateOnly))))
	fmt.Fprintf(w, "Directory: %s\n", report.Metadata.Directory)
	fmt.Fprintln(w)

	for i := range report.Sources {
		f.formatSource(&report.Sources[i], styles, w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d sources checked, %d found, %d missing, %d without timestamps, %d warnings\n",
		report.Summary.SourcesChecked,
		report.Summary.SourcesFound,
		report.Summary.SourcesMissing,
		report.Summary.SourcesEmpty,
		report.Summary.Warnings)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
		fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	}

	return nil
}

func (f *TextFormatter) formatSource(src *analyzer.SourceResult, styles textStyles, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", styles.source.Render("["+strings.ToUpper(src.Name)+"]"), src.Pattern)

	if !src.Found {
		fmt.Fprintf(w, "  %s\n\n", styles.missing.Render("No log file found"))
		return
	}

	fmt.Fprintf(w, "  %s %s\n", styles.label.Render("File:  "), src.File)

	if src.Summary.Start == nil {
		fmt.Fprintf(w, "  %s\n", styles.missing.Render("No timestamped lines"))
	} else {
		fmt.Fprintf(w, "  %s %s\n", styles.label.Render("Start: "), styles.ok.Render(formatTime(src.Summary.Start)))
		fmt.Fprintf(w, "  %s %s\n", styles.label.Render("End:   "), styles.ok.Render(formatTime(src.Summary.End)))
		if src.Summary.Marker != nil {
			fmt.Fprintf(w, "  %s %s\n", styles.label.Render("Rclone:"), styles.ok.Render(formatTime(src.Summary.Marker)))
		}
	}

	if src.WarningCount > 0 {
		fmt.Fprintf(w, "  Warnings: %d malformed line(s)\n", src.WarningCount)
		if f.opts.Verbose {
			for _, warn := range src.Warnings {
				fmt.Fprintf(w, "    - line %d: %s\n", warn.LineNum, warn.Text)
			}
		}
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "  Lines read: %d\n", src.LinesRead)
	}

	fmt.Fprintln(w)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DisplayLayout)
}
