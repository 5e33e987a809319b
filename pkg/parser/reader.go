package parser

import (
	"bufio"
	"context"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineSize bounds a single decoded line.
const MaxLineSize = 1024 * 1024

// LineReader reads a UTF-16LE encoded log file one line at a time.
// A leading byte-order-mark is passed through as U+FEFF on the first line.
type LineReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	lineNum int
}

// OpenLineReader opens path for sequential line reading.
// The caller must Close the reader.
func OpenLineReader(path string) (*LineReader, error) {
	f, err := os.Open(path) // #nosec G304 -- paths come from the directory scan
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	return newLineReader(path, f), nil
}

func newLineReader(path string, f *os.File) *LineReader {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	scanner := bufio.NewScanner(transform.NewReader(f, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	return &LineReader{
		path:    path,
		file:    f,
		scanner: scanner,
	}
}

// Next returns the next decoded line.
// Returns io.EOF when the file is exhausted and a *FileReadError on I/O failure.
func (r *LineReader) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if r.scanner == nil {
		return nil, io.EOF
	}

	if r.scanner.Scan() {
		r.lineNum++
		return &LogLine{
			Content: r.scanner.Text(),
			Source:  r.path,
			LineNum: r.lineNum,
		}, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, &FileReadError{Path: r.path, Err: err}
	}

	r.scanner = nil
	return nil, io.EOF
}

// Path returns the file being read.
func (r *LineReader) Path() string {
	return r.path
}

// Close releases the underlying file.
func (r *LineReader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		r.scanner = nil
		return err
	}
	return nil
}
