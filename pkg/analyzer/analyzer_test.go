package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/backuplog/internal/testutil"
	"github.com/ccollicutt/backuplog/pkg/parser"
)

var analysisDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func writePrimary(t *testing.T, dir string) {
	t.Helper()
	testutil.WriteBackupLog(t, dir, "log_backup_20240115_001.log",
		"15/01/2024 02:00:00: Début de la sauvegarde NAS",
		"15/01/2024 02:01:00: Copie des fichiers",
		"15/01/2024 02:05:00: Fin de la sauvegarde NAS",
	)
}

func writeOffsite(t *testing.T, dir string) {
	t.Helper()
	testutil.WriteBackupLog(t, dir, "log_backup_ovh_20240115_002.log",
		"15/01/2024 03:00:00: Début de la sauvegarde OVH",
		"15/01/2024 03:02:00: Début transfert rclone ovh",
		"Transferred:   1.2 GiB / 1.2 GiB, 100%",
		"15/01/2024 03:10:00: Fin de la sauvegarde OVH",
	)
}

func TestNewAnalyzer(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	require.NotNil(t, a)

	sources := a.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, SourcePrimary, sources[0].Name)
	assert.Empty(t, sources[0].Marker)
	assert.Equal(t, SourceOffsite, sources[1].Name)
	assert.Equal(t, RcloneMarker, sources[1].Marker)
}

func TestSource_Pattern(t *testing.T) {
	sources := DefaultSources()
	assert.Equal(t, "log_backup_20240115_*.log", sources[0].Pattern(analysisDate))
	assert.Equal(t, "log_backup_ovh_20240115_*.log", sources[1].Pattern(analysisDate))
}

func TestAnalyzer_Run_BothSources(t *testing.T) {
	dir := t.TempDir()
	writePrimary(t, dir)
	writeOffsite(t, dir)

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate,
	})
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)

	primary := result.Source(SourcePrimary)
	require.NotNil(t, primary)
	assert.True(t, primary.Found)
	assert.Equal(t, filepath.Join(dir, "log_backup_20240115_001.log"), primary.File)
	require.NotNil(t, primary.Summary.Start)
	require.NotNil(t, primary.Summary.End)
	assert.Equal(t, at(2, 0, 0), *primary.Summary.Start)
	assert.Equal(t, at(2, 5, 0), *primary.Summary.End)
	assert.Nil(t, primary.Summary.Marker)

	offsite := result.Source(SourceOffsite)
	require.NotNil(t, offsite)
	assert.True(t, offsite.Found)
	require.NotNil(t, offsite.Summary.Marker)
	assert.Equal(t, at(3, 0, 0), *offsite.Summary.Start)
	assert.Equal(t, at(3, 10, 0), *offsite.Summary.End)
	assert.Equal(t, at(3, 2, 0), *offsite.Summary.Marker)
	assert.Equal(t, 1, offsite.WarningCount)

	assert.Equal(t, 1, result.TotalWarnings())
	assert.Equal(t, dir, result.Directory)
	assert.Equal(t, analysisDate, result.Date)
}

func TestAnalyzer_Run_MissingPrimary(t *testing.T) {
	dir := t.TempDir()
	writeOffsite(t, dir)

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate,
	})
	require.NoError(t, err)

	primary := result.Source(SourcePrimary)
	require.NotNil(t, primary)
	assert.False(t, primary.Found)
	assert.Empty(t, primary.File)
	assert.True(t, primary.Summary.IsEmpty())
	assert.Equal(t, "log_backup_20240115_*.log", primary.Pattern)

	offsite := result.Source(SourceOffsite)
	require.NotNil(t, offsite)
	assert.True(t, offsite.Found)
	assert.NotNil(t, offsite.Summary.Marker)
}

func TestAnalyzer_Run_NoFiles(t *testing.T) {
	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: t.TempDir(),
		Date:      analysisDate,
	})
	require.NoError(t, err)

	for _, src := range result.Sources {
		assert.False(t, src.Found, src.Name)
		assert.True(t, src.Summary.IsEmpty(), src.Name)
	}
}

func TestAnalyzer_Run_OtherDateIgnored(t *testing.T) {
	dir := t.TempDir()
	writePrimary(t, dir)

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.False(t, result.Source(SourcePrimary).Found)
}

func TestAnalyzer_Run_DateTimeIsTruncated(t *testing.T) {
	dir := t.TempDir()
	writePrimary(t, dir)

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate.Add(23 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, result.Source(SourcePrimary).Found)
	assert.Equal(t, analysisDate, result.Date)
}

func TestAnalyzer_Run_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate,
	})
	assert.Nil(t, result)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, dir, cfgErr.Directory)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAnalyzer_Run_NotADirectory(t *testing.T) {
	file := testutil.WriteFile(t, filepath.Join(t.TempDir(), "file.txt"), []byte("x"))

	_, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: file,
		Date:      analysisDate,
	})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestAnalyzer_Run_ReadFailureAborts(t *testing.T) {
	dir := t.TempDir()
	writeOffsite(t, dir)
	// A dangling symlink matches the primary pattern but cannot be opened.
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "log_backup_20240115_001.log")))

	result, err := NewAnalyzer(zerolog.Nop()).Run(context.Background(), AnalysisRequest{
		Directory: dir,
		Date:      analysisDate,
	})
	assert.Nil(t, result)

	var readErr *parser.FileReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestAnalyzer_Run_CustomSources(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteBackupLog(t, dir, "log_sql_20240115_1.log",
		"15/01/2024 01:00:00: dump start",
		"15/01/2024 01:30:00: dump end",
	)

	a := NewAnalyzer(zerolog.Nop(), WithSources([]Source{{Name: "sql", Prefix: "log_sql_", Marker: "dump end"}}))
	result, err := a.Run(context.Background(), AnalysisRequest{Directory: dir, Date: analysisDate})
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)

	sql := result.Source("sql")
	require.NotNil(t, sql)
	require.NotNil(t, sql.Summary.Marker)
	assert.Equal(t, at(1, 30, 0), *sql.Summary.Marker)
}

func TestAnalyzer_Run_LogsMissingSource(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	_, err := NewAnalyzer(logger).Run(context.Background(), AnalysisRequest{
		Directory: t.TempDir(),
		Date:      analysisDate,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "no log file found")
	assert.Contains(t, out, "log_backup_ovh_20240115_*.log")
}

func TestAnalyzer_Run_WithStreamOptions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteBackupLog(t, dir, "log_backup_20240115_001.log",
		"first malformed line of the file",
		"second malformed line of the file",
	)

	a := NewAnalyzer(zerolog.Nop(), WithStreamOptions(WithMaxWarnings(0)))
	result, err := a.Run(context.Background(), AnalysisRequest{Directory: dir, Date: analysisDate})
	require.NoError(t, err)

	primary := result.Source(SourcePrimary)
	assert.Equal(t, 2, primary.WarningCount)
	assert.Empty(t, primary.Warnings)
}

func TestBackupAnalysisResult_SourceUnknown(t *testing.T) {
	result := &BackupAnalysisResult{}
	assert.Nil(t, result.Source("nope"))
}
