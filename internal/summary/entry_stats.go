package summary

import (
	"strings"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// EntryStats holds diffusion metrics for a single checkin.
type EntryStats struct {
	CommitID       string
	Date           string
	TimeOfDay      string
	User           string
	Message        string
	FileCount      int // NF: Number of files
	DirectoryCount int // ND: Number of directories
	SubsystemCount int // NS: Number of subsystems (top-level directories)
	Added          int
	Edited         int
	Deleted        int
}

// CalculateEntry computes metrics for a single changelog entry.
func CalculateEntry(e fossil.ChangeEntry) EntryStats {
	directories := make(map[string]struct{})
	subsystems := make(map[string]struct{})

	stats := EntryStats{
		CommitID:  e.CommitID,
		Date:      e.Date,
		TimeOfDay: e.TimeOfDay,
		User:      e.User(),
		Message:   truncateMessage(e.Message),
		FileCount: len(e.AffectedFiles),
	}

	for _, af := range e.AffectedFiles {
		switch af.EditType {
		case fossil.EditAdded:
			stats.Added++
		case fossil.EditDeleted:
			stats.Deleted++
		default:
			stats.Edited++
		}

		dir, subsystem := extractPathComponents(af.Path)
		if dir != "" {
			directories[strings.ToLower(dir)] = struct{}{}
		}
		if subsystem != "" {
			subsystems[strings.ToLower(subsystem)] = struct{}{}
		}
	}

	stats.DirectoryCount = len(directories)
	stats.SubsystemCount = len(subsystems)
	if stats.SubsystemCount == 0 && stats.FileCount > 0 {
		stats.SubsystemCount = 1
	}
	return stats
}

// extractPathComponents extracts directory path and subsystem from a file path.
// Subsystem is the first directory component (e.g., "src", "tests", "docs").
func extractPathComponents(path string) (directory, subsystem string) {
	if path == "" {
		return "", ""
	}

	normalizedPath := strings.ReplaceAll(path, "\\", "/")

	lastSlash := strings.LastIndex(normalizedPath, "/")
	if lastSlash <= 0 {
		// File is in root directory
		return "", ""
	}

	directory = normalizedPath[:lastSlash]
	subsystem = normalizedPath[:strings.Index(normalizedPath, "/")]
	return directory, subsystem
}

// truncateMessage truncates a checkin comment to its first line, max 100 chars.
func truncateMessage(message string) string {
	if message == "" {
		return ""
	}

	firstLine := message
	if i := strings.IndexAny(message, "\r\n"); i > 0 {
		firstLine = message[:i]
	}

	if len(firstLine) > 100 {
		return firstLine[:97] + "..."
	}
	return firstLine
}
