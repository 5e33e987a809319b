package analyzer

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/backuplog/pkg/parser"
)

// DefaultMaxWarnings bounds the warnings kept per source. All are still counted.
const DefaultMaxWarnings = 100

// StreamAnalyzer summarizes a single backup log in one forward pass.
type StreamAnalyzer struct {
	extractor   *parser.TimestampExtractor
	logger      zerolog.Logger
	maxWarnings int
}

// StreamOption configures a StreamAnalyzer.
type StreamOption func(*StreamAnalyzer)

// WithMaxWarnings sets how many line warnings are kept per source.
func WithMaxWarnings(n int) StreamOption {
	return func(s *StreamAnalyzer) {
		s.maxWarnings = n
	}
}

// NewStreamAnalyzer creates a stream analyzer.
func NewStreamAnalyzer(logger zerolog.Logger, opts ...StreamOption) *StreamAnalyzer {
	s := &StreamAnalyzer{
		extractor:   parser.NewTimestampExtractor(),
		logger:      logger,
		maxWarnings: DefaultMaxWarnings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// streamState is the running fold over the lines of one file.
type streamState struct {
	started bool
	start   time.Time
	end     time.Time
	marker  time.Time
	marked  bool
}

// Analyze reads path and returns its summary, line count and warnings.
// An empty marker disables marker tracking. Read failures are returned as
// *parser.FileReadError and no partial result is produced.
func (s *StreamAnalyzer) Analyze(ctx context.Context, path, marker string) (*SourceResult, error) {
	reader, err := parser.OpenLineReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	result := &SourceResult{File: path}
	var state streamState

	for {
		line, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		parsed := s.parse(line, !state.started)
		result.LinesRead++

		if parsed.err != nil {
			s.warn(result, line, parsed.err)
			continue
		}
		if !parsed.HasTimestamp {
			continue
		}

		ts := parsed.Timestamp
		if !state.started {
			state.start = ts
			state.started = true
		}
		state.end = ts

		if marker != "" && !state.marked && strings.Contains(parsed.Raw, marker) {
			state.marker = ts
			state.marked = true
		}
	}

	if state.started {
		result.Summary.Start = timePtr(state.start)
		result.Summary.End = timePtr(state.end)
	}
	if state.marked {
		result.Summary.Marker = timePtr(state.marker)
	}

	return result, nil
}

type parseOutcome struct {
	parser.ParsedLine
	err error
}

// parse extracts the timestamp of line; short lines yield no timestamp and no error.
func (s *StreamAnalyzer) parse(line *parser.LogLine, firstLine bool) parseOutcome {
	out := parseOutcome{ParsedLine: parser.ParsedLine{Raw: line.Content, LineNum: line.LineNum}}

	ts, err := s.extractor.Extract(line.Content, firstLine)
	switch {
	case errors.Is(err, parser.ErrShortLine):
	case err != nil:
		out.err = err
	default:
		out.Timestamp = ts
		out.HasTimestamp = true
	}
	return out
}

func (s *StreamAnalyzer) warn(result *SourceResult, line *parser.LogLine, err error) {
	result.WarningCount++
	if len(result.Warnings) < s.maxWarnings {
		result.Warnings = append(result.Warnings, LineWarning{
			LineNum: line.LineNum,
			Text:    line.Content,
			Err:     err,
		})
	}

	s.logger.Warn().
		Err(err).
		Str("file", line.Source).
		Int("line", line.LineNum).
		Str("text", line.Content).
		Msg("malformed timestamp")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
