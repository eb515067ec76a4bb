package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/summary"
)

// CSVChangeLogWriter writes changelog reports as CSV, one row per checkin.
type CSVChangeLogWriter struct{}

// Write outputs the changelog report as CSV.
func (w *CSVChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Date", "Time", "CommitID", "User", "IsMerge", "IsBugfix",
		"FileCount", "Directories", "Subsystems", "Added", "Edited", "Deleted", "Message"}
	if report.BrowserURL != "" {
		headers = append(headers, "URL")
	}
	if options.Explain {
		headers = append(headers, "AffectedFiles")
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, e := range entries {
		stats := summary.CalculateEntry(e)
		files := make([]string, 0, len(e.AffectedFiles))
		for _, af := range e.AffectedFiles {
			files = append(files, fmt.Sprintf("%s:%s", af.EditType, af.Path))
		}

		row := []string{
			e.Date,
			e.TimeOfDay,
			e.CommitID,
			e.User(),
			strconv.FormatBool(e.IsMerge),
			strconv.FormatBool(report.Bugfixes.IsBugfixCommit(e.CommitID)),
			strconv.Itoa(stats.FileCount),
			strconv.Itoa(stats.DirectoryCount),
			strconv.Itoa(stats.SubsystemCount),
			strconv.Itoa(stats.Added),
			strconv.Itoa(stats.Edited),
			strconv.Itoa(stats.Deleted),
			e.Message,
		}
		if report.BrowserURL != "" {
			row = append(row, report.CommitURL(e.CommitID))
		}
		if options.Explain {
			row = append(row, strings.Join(files, ";"))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
