// Package parser provides backup log file discovery, decoding and timestamp parsing.
package parser

import "time"

// LogLine is a raw decoded log line before timestamp parsing.
type LogLine struct {
	// Content is the decoded line text, without the line terminator.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// ParsedLine is a log line together with the outcome of timestamp extraction.
// It is transient: consumers fold it into a summary and drop it.
type ParsedLine struct {
	// Raw is the original line content.
	Raw string

	// Timestamp is the parsed leading timestamp. Zero unless HasTimestamp is set.
	Timestamp time.Time

	// HasTimestamp reports whether the line carried a valid leading timestamp.
	HasTimestamp bool

	// LineNum is the 1-based line number in the source file.
	LineNum int
}
