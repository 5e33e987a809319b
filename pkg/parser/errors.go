package parser

import "fmt"

// FileScanError reports an I/O failure while listing a directory for log files.
type FileScanError struct {
	Dir     string
	Pattern string
	Err     error
}

func (e *FileScanError) Error() string {
	return fmt.Sprintf("scanning %s for %q: %v", e.Dir, e.Pattern, e.Err)
}

func (e *FileScanError) Unwrap() error {
	return e.Err
}

// FileReadError reports an I/O failure while reading a log file.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
