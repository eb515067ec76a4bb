package output

// CIChangeLogWriter writes changelog reports as NDJSON (one JSON object per line) for CI pipelines.
type CIChangeLogWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type         string `json:"type"`
	OldRevision  string `json:"oldRevision,omitempty"`
	NewRevision  string `json:"newRevision,omitempty"`
	TotalEntries int    `json:"totalEntries"`
	TotalFiles   int    `json:"totalFiles"`
	Added        int    `json:"added"`
	Edited       int    `json:"edited"`
	Deleted      int    `json:"deleted"`
	Merges       int    `json:"merges"`
	Bugfixes     int    `json:"bugfixes"`
}

// CIEntry represents a single checkin in CI output.
type CIEntry struct {
	Type      string `json:"type"`
	CommitID  string `json:"commitId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	User      string `json:"user,omitempty"`
	Message   string `json:"message"`
	FileCount int    `json:"fileCount"`
	IsBugfix  bool   `json:"isBugfix"`
	URL       string `json:"url,omitempty"`
}

// CIFile represents an affected file in CI output, emitted with Explain.
type CIFile struct {
	Type     string `json:"type"`
	CommitID string `json:"commitId"`
	Action   string `json:"action"`
	Path     string `json:"path"`
}

// Write outputs the changelog report as NDJSON.
func (w *CIChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:         "summary",
		OldRevision:  report.OldRevision,
		NewRevision:  report.NewRevision,
		TotalEntries: len(report.Entries),
	}
	if s := report.Summary; s != nil {
		summary.TotalFiles = s.TotalFiles()
		summary.Added = s.Added
		summary.Edited = s.Edited
		summary.Deleted = s.Deleted
		summary.Merges = s.MergeCount
		summary.Bugfixes = s.BugfixCount
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, e := range entries {
		entry := CIEntry{
			Type:      "entry",
			CommitID:  e.CommitID,
			Date:      e.Date,
			Time:      e.TimeOfDay,
			User:      e.User(),
			Message:   entryHeadline(e),
			FileCount: len(e.AffectedFiles),
			IsBugfix:  report.Bugfixes.IsBugfixCommit(e.CommitID),
			URL:       report.CommitURL(e.CommitID),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}

		if !options.Explain {
			continue
		}
		for _, af := range e.AffectedFiles {
			line := CIFile{Type: "file", CommitID: e.CommitID, Action: af.EditType.String(), Path: af.Path}
			if err := writeNDJSONLine(out, line); err != nil {
				return err
			}
		}
	}

	return nil
}

// CIPollWriter writes poll reports as a single NDJSON line.
type CIPollWriter struct{}

// CIPoll is the CI output line for a poll.
type CIPoll struct {
	Type string `json:"type"`
	JSONPollReport
}

// Write outputs the poll result as NDJSON.
func (w *CIPollWriter) Write(report *PollReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeNDJSONLine(out, CIPoll{Type: "poll", JSONPollReport: newJSONPollReport(report)})
}
