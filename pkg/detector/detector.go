// Package detector inspects a backup log to explain why it yields no
// timestamps: wrong text encoding or lines without the leading date field.
package detector

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccollicutt/backuplog/pkg/parser"
)

// DefaultSampleSize is the number of non-empty lines examined.
const DefaultSampleSize = 100

// maxSampleBytes bounds how much of the file is read.
const maxSampleBytes = 64 * 1024

// DetectionResult holds the result of inspecting a log file.
type DetectionResult struct {
	Encoding     *Encoding // Detected encoding
	HasBOM       bool      // Encoding came from a byte order mark
	SampledLines int       // Number of lines sampled
	ParsedLines  int       // Number of lines with a valid leading timestamp
	SampleLine   string    // First line that parsed
	FailedLine   string    // First line that did not parse
	Note         string    // Hint when the file is unlikely to analyze cleanly
}

// Confidence is the share of sampled lines that carry a timestamp.
func (r *DetectionResult) Confidence() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.ParsedLines) / float64(r.SampledLines)
}

// HasMatch returns true if at least one sampled line has a timestamp.
func (r *DetectionResult) HasMatch() bool {
	return r.ParsedLines > 0
}

// Detector samples log files.
type Detector struct {
	encodings  []*Encoding
	extractor  *parser.TimestampExtractor
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default encodings.
func New(opts ...Option) *Detector {
	d := &Detector{
		encodings:  DefaultEncodings(),
		extractor:  parser.NewTimestampExtractor(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads the head of a file, detects its encoding and counts
// the sampled lines that carry a leading timestamp.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path comes from the configured log directory
	file, err := os.Open(path)
	if err != nil {
		return nil, &parser.FileReadError{Path: path, Err: err}
	}
	defer file.Close()

	head := make([]byte, maxSampleBytes)
	n, err := io.ReadFull(file, head)
	truncated := err == nil
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, &parser.FileReadError{Path: path, Err: err}
	}
	head = head[:n]

	enc, hasBOM := sniff(d.encodings, head)
	body := head
	if hasBOM {
		body = head[len(enc.BOM):]
	}
	if enc.Name != UTF8 && len(body)%2 == 1 {
		body = body[:len(body)-1]
	}

	text, err := enc.Decode(body)
	if err != nil {
		return nil, &parser.FileReadError{Path: path, Err: fmt.Errorf("decoding %s: %w", enc.Name, err)}
	}

	lines := strings.Split(text, "\n")
	if truncated && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}

	result := d.DetectFromLines(lines)
	result.Encoding = enc
	result.HasBOM = hasBOM
	result.Note = note(result)
	return result, nil
}

// DetectFromLines counts the lines that carry a leading timestamp. Lines
// are expected to be decoded already; a BOM left on the first line is
// tolerated the same way the analyzer tolerates it.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if result.SampledLines >= d.sampleSize {
			break
		}
		result.SampledLines++

		if _, err := d.extractor.Extract(line, result.ParsedLines == 0); err == nil {
			result.ParsedLines++
			if result.SampleLine == "" {
				result.SampleLine = line
			}
		} else if result.FailedLine == "" {
			result.FailedLine = line
		}
	}

	return result
}

func note(r *DetectionResult) string {
	switch {
	case r.Encoding != nil && !r.Encoding.Expected:
		return fmt.Sprintf("File looks like %s; backup logs are read as %s and will not parse", r.Encoding.Name, UTF16LE)
	case r.SampledLines == 0:
		return "File has no non-empty lines"
	case !r.HasMatch():
		return fmt.Sprintf("No line starts with a %q timestamp", "DD/MM/YYYY HH:MM:SS: ")
	}
	return ""
}
