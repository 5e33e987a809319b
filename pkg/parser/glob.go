package parser

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FindOne returns a regular file directly inside dir whose base name matches pattern.
// Subdirectories are not descended into and directory entries never match.
// The boolean is false when nothing matches; that is not an error.
// Listing failures and malformed patterns are returned as *FileScanError.
func FindOne(dir, pattern string) (string, bool, error) {
	if !doublestar.ValidatePattern(pattern) {
		return "", false, &FileScanError{Dir: dir, Pattern: pattern, Err: doublestar.ErrBadPattern}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, &FileScanError{Dir: dir, Pattern: pattern, Err: err}
	}

	for _, entry := range entries {
		matched, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return "", false, &FileScanError{Dir: dir, Pattern: pattern, Err: err}
		}
		if !matched {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		isDir, err := isDirectory(entry, path)
		if err != nil {
			return "", false, &FileScanError{Dir: dir, Pattern: pattern, Err: err}
		}
		if isDir {
			continue
		}

		return path, true, nil
	}

	return "", false, nil
}

// isDirectory reports whether entry is a directory, following symlinks.
func isDirectory(entry os.DirEntry, path string) (bool, error) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Dangling link.
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
