package analyzer

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by ConfigurationError when the path is a file.
var ErrNotDirectory = errors.New("not a directory")

// ConfigurationError reports an unusable log directory.
// It is returned before any file is accessed.
type ConfigurationError struct {
	Directory string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("log directory %s: %v", e.Directory, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
