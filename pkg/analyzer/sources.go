package analyzer

import (
	"fmt"
	"time"
)

// Source names.
const (
	SourcePrimary = "primary"
	SourceOffsite = "offsite"
)

// RcloneMarker tags the line that starts the offsite rclone transfer.
const RcloneMarker = "transfert rclone ovh"

// FileDateLayout is the date layout embedded in log file names (YYYYMMDD).
const FileDateLayout = "20060102"

// Source describes one backup log and how to summarize it.
type Source struct {
	// Name identifies the source in results.
	Name string

	// Prefix is the file name prefix preceding the date.
	Prefix string

	// Marker is the literal text whose first occurrence is recorded.
	// Empty disables marker tracking.
	Marker string
}

// Pattern returns the file name glob for the given analysis date.
func (s Source) Pattern(date time.Time) string {
	return fmt.Sprintf("%s%s_*.log", s.Prefix, date.Format(FileDateLayout))
}

// DefaultSources returns the backup sources produced by the nightly jobs.
func DefaultSources() []Source {
	return []Source{
		{Name: SourcePrimary, Prefix: "log_backup_"},
		{Name: SourceOffsite, Prefix: "log_backup_ovh_", Marker: RcloneMarker},
	}
}
