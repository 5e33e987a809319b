// logfile.go - UTF-16LE backup log fixtures for tests
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// EncodeUTF16LE encodes lines joined with CRLF as UTF-16LE, optionally with a BOM.
func EncodeUTF16LE(t testing.TB, lines []string, bom bool) []byte {
	t.Helper()

	policy := unicode.IgnoreBOM
	if bom {
		policy = unicode.UseBOM
	}

	content := strings.Join(lines, "\r\n")
	if len(lines) > 0 {
		content += "\r\n"
	}

	data, err := unicode.UTF16(unicode.LittleEndian, policy).NewEncoder().Bytes([]byte(content))
	if err != nil {
		t.Fatalf("encoding UTF-16LE fixture: %v", err)
	}
	return data
}

// WriteBackupLog writes lines to dir/name as a UTF-16LE log with a leading BOM
// and returns the file path.
func WriteBackupLog(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, name), EncodeUTF16LE(t, lines, true))
}

// WriteFile writes data to path, failing the test on error.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
