package analyzer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/backuplog/pkg/parser"
)

// Analyzer locates the backup logs of a day and summarizes each source.
type Analyzer struct {
	logger  zerolog.Logger
	sources []Source
	stream  *StreamAnalyzer

	streamOpts []StreamOption
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithSources replaces the default backup sources.
func WithSources(sources []Source) AnalyzerOption {
	return func(a *Analyzer) {
		a.sources = sources
	}
}

// WithStreamOptions passes options to the per-file stream analyzer.
func WithStreamOptions(opts ...StreamOption) AnalyzerOption {
	return func(a *Analyzer) {
		a.streamOpts = append(a.streamOpts, opts...)
	}
}

// NewAnalyzer creates an analyzer for the default backup sources.
func NewAnalyzer(logger zerolog.Logger, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		logger:  logger,
		sources: DefaultSources(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.stream = NewStreamAnalyzer(logger, a.streamOpts...)
	return a
}

// Sources returns the configured backup sources.
func (a *Analyzer) Sources() []Source {
	return a.sources
}

// Run analyzes the logs of req.Date found in req.Directory.
//
// A missing or non-directory req.Directory fails with *ConfigurationError
// before any listing. A source without a matching file is logged and left
// with Found unset. Scan and read failures abort the run.
func (a *Analyzer) Run(ctx context.Context, req AnalysisRequest) (*BackupAnalysisResult, error) {
	if err := checkDirectory(req.Directory); err != nil {
		return nil, err
	}

	date := dateOnly(req.Date)
	a.logger.Info().
		Str("directory", req.Directory).
		Str("date", date.Format(time.DateOnly)).
		Msg("starting analysis")

	result := &BackupAnalysisResult{
		Directory: req.Directory,
		Date:      date,
		Sources:   make([]SourceResult, 0, len(a.sources)),
	}

	for _, src := range a.sources {
		srcResult, err := a.analyzeSource(ctx, req.Directory, date, src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
		result.Sources = append(result.Sources, *srcResult)
	}

	a.logResult(result)
	return result, nil
}

func (a *Analyzer) analyzeSource(ctx context.Context, dir string, date time.Time, src Source) (*SourceResult, error) {
	pattern := src.Pattern(date)

	path, ok, err := parser.FindOne(dir, pattern)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.logger.Warn().
			Str("source", src.Name).
			Str("pattern", pattern).
			Msg("no log file found")
		return &SourceResult{Name: src.Name, Pattern: pattern}, nil
	}

	a.logger.Info().
		Str("source", src.Name).
		Str("file", path).
		Msg("analyzing log file")

	res, err := a.stream.Analyze(ctx, path, src.Marker)
	if err != nil {
		return nil, err
	}
	res.Name = src.Name
	res.Pattern = pattern
	res.Found = true

	return res, nil
}

func (a *Analyzer) logResult(result *BackupAnalysisResult) {
	for _, src := range result.Sources {
		event := a.logger.Info().
			Str("source", src.Name).
			Bool("found", src.Found).
			Int("lines", src.LinesRead).
			Int("warnings", src.WarningCount)
		if s := src.Summary.Start; s != nil {
			event = event.Time("start", *s)
		}
		if e := src.Summary.End; e != nil {
			event = event.Time("end", *e)
		}
		if m := src.Summary.Marker; m != nil {
			event = event.Time("marker", *m)
		}
		event.Msg("source summary")
	}
}

// checkDirectory fails with *ConfigurationError unless dir is an existing directory.
func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &ConfigurationError{Directory: dir, Err: err}
	}
	if !info.IsDir() {
		return &ConfigurationError{Directory: dir, Err: ErrNotDirectory}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
