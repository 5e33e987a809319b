package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := NewLogger(Options{Level: tt.level, Writer: &bytes.Buffer{}})
		assert.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", Writer: &buf})

	logger.Info().Str("source", "primary").Msg("analyzing log file")
	logger.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"source":"primary"`)
	assert.Contains(t, out, `"message":"analyzing log file"`)
	assert.Contains(t, out, `"time":`)
	assert.NotContains(t, out, "hidden")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Format: "console", Writer: &buf})

	logger.Warn().Str("pattern", "log_backup_*.log").Msg("no log file found")

	out := buf.String()
	assert.Contains(t, out, "no log file found")
	assert.Contains(t, out, "log_backup_*.log")
	assert.NotContains(t, out, `"message"`)
}
