package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// TimestampLayout is the Go layout of the leading field, DD/MM/YYYY HH:MM:SS: .
	TimestampLayout = "02/01/2006 15:04:05: "

	// TimestampWidth is the width of the leading field in characters.
	TimestampWidth = 21

	// ByteOrderMark is the decoded byte-order-mark character.
	ByteOrderMark = "\uFEFF"
)

// ErrShortLine is returned for lines too short to carry a timestamp field.
// It is not a parse failure and should not be reported as a warning.
var ErrShortLine = errors.New("line too short for a timestamp")

// TimestampError reports a leading field that does not match TimestampLayout.
type TimestampError struct {
	// Field is the candidate timestamp text.
	Field string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q: %v", e.Field, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// TimestampExtractor parses the fixed-width timestamp that prefixes backup log lines.
type TimestampExtractor struct {
	layout string
	width  int
}

// NewTimestampExtractor creates an extractor for the backup log timestamp convention.
func NewTimestampExtractor() *TimestampExtractor {
	return &TimestampExtractor{
		layout: TimestampLayout,
		width:  TimestampWidth,
	}
}

// Extract parses the leading timestamp of line.
// When firstLine is set a single leading byte-order-mark is dropped before slicing.
// Returns ErrShortLine for lines of width-1 characters or fewer and a
// *TimestampError when the field does not parse.
func (e *TimestampExtractor) Extract(line string, firstLine bool) (time.Time, error) {
	if utf8.RuneCountInString(line) < e.width {
		return time.Time{}, ErrShortLine
	}

	if firstLine {
		line = strings.TrimPrefix(line, ByteOrderMark)
	}

	field, ok := leadingRunes(line, e.width)
	if !ok {
		return time.Time{}, &TimestampError{Field: field, Err: errors.New("field truncated")}
	}

	ts, err := time.Parse(e.layout, field)
	if err != nil {
		return time.Time{}, &TimestampError{Field: field, Err: err}
	}

	return ts, nil
}

// FormatTimestamp renders t as a leading timestamp field.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// leadingRunes returns the first n characters of s and whether s had that many.
func leadingRunes(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, count == n
}
