package output

import (
	"time"
)

// JSONChangeLogWriter writes changelog reports as JSON.
type JSONChangeLogWriter struct{}

// JSONChangeLogReport is the JSON output structure for a changelog.
type JSONChangeLogReport struct {
	RepoPath     string      `json:"repo"`
	OldRevision  string      `json:"oldRevision,omitempty"`
	NewRevision  string      `json:"newRevision,omitempty"`
	GeneratedAt  string      `json:"generatedAt"`
	TotalEntries int         `json:"totalEntries"`
	Summary      JSONSummary `json:"summary"`
	Entries      []JSONEntry `json:"entries"`
}

// JSONEntry is the JSON output structure for a single checkin.
type JSONEntry struct {
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	CommitID  string     `json:"commitId"`
	User      string     `json:"user,omitempty"`
	Message   string     `json:"message"`
	Tags      []string   `json:"tags"`
	IsMerge   bool       `json:"isMerge"`
	IsBugfix  bool       `json:"isBugfix"`
	FileCount int        `json:"fileCount"`
	URL       string     `json:"url,omitempty"`
	Files     []JSONFile `json:"files,omitempty"`
}

// JSONFile is an affected file in JSON format.
type JSONFile struct {
	Action string `json:"action"`
	Path   string `json:"path"`
}

// JSONSummary holds changelog totals in JSON format.
type JSONSummary struct {
	TotalFiles int        `json:"totalFiles"`
	Added      int        `json:"added"`
	Edited     int        `json:"edited"`
	Deleted    int        `json:"deleted"`
	Merges     int        `json:"merges"`
	Bugfixes   int        `json:"bugfixes"`
	Paths      []JSONPath `json:"paths,omitempty"`
	CoChanges  []JSONPair `json:"coChanges,omitempty"`
}

// JSONPair holds two paths changed together in JSON format.
type JSONPair struct {
	PathA   string  `json:"pathA"`
	PathB   string  `json:"pathB"`
	Count   int     `json:"count"`
	Jaccard float64 `json:"jaccard"`
}

// JSONPath holds per-path totals in JSON format.
type JSONPath struct {
	Path        string `json:"path"`
	Touches     int    `json:"touches"`
	Added       int    `json:"added"`
	Edited      int    `json:"edited"`
	Deleted     int    `json:"deleted"`
	BugfixCount int    `json:"bugfixCount"`
	Users       int    `json:"users"`
	LastCommit  string `json:"lastCommit"`
}

// Write outputs the changelog report as JSON.
func (w *JSONChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	jsonEntries := make([]JSONEntry, len(entries))
	for i, e := range entries {
		item := JSONEntry{
			Date:      e.Date,
			Time:      e.TimeOfDay,
			CommitID:  e.CommitID,
			User:      e.User(),
			Message:   e.Message,
			Tags:      e.Tags,
			IsMerge:   e.IsMerge,
			IsBugfix:  report.Bugfixes.IsBugfixCommit(e.CommitID),
			FileCount: len(e.AffectedFiles),
			URL:       report.CommitURL(e.CommitID),
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if options.Explain {
			item.Files = make([]JSONFile, len(e.AffectedFiles))
			for j, af := range e.AffectedFiles {
				item.Files[j] = JSONFile{Action: af.EditType.String(), Path: af.Path}
			}
		}
		jsonEntries[i] = item
	}

	jsonReport := JSONChangeLogReport{
		RepoPath:     report.RepoPath,
		OldRevision:  report.OldRevision,
		NewRevision:  report.NewRevision,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalEntries: len(report.Entries),
		Entries:      jsonEntries,
	}

	if s := report.Summary; s != nil {
		jsonReport.Summary = JSONSummary{
			TotalFiles: s.TotalFiles(),
			Added:      s.Added,
			Edited:     s.Edited,
			Deleted:    s.Deleted,
			Merges:     s.MergeCount,
			Bugfixes:   s.BugfixCount,
		}
		if options.Explain {
			for _, p := range s.Paths {
				jsonReport.Summary.Paths = append(jsonReport.Summary.Paths, JSONPath{
					Path:        p.Path,
					Touches:     p.Touches,
					Added:       p.Added,
					Edited:      p.Edited,
					Deleted:     p.Deleted,
					BugfixCount: p.BugfixCount,
					Users:       p.UserCount(),
					LastCommit:  p.LastCommitID,
				})
			}
			for _, c := range s.CoChanges {
				jsonReport.Summary.CoChanges = append(jsonReport.Summary.CoChanges, JSONPair{
					PathA:   c.PathA,
					PathB:   c.PathB,
					Count:   c.Count,
					Jaccard: c.Jaccard,
				})
			}
		}
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONInfoWriter writes info reports as JSON.
type JSONInfoWriter struct{}

// JSONInfoReport is the JSON output structure for `fossil info`.
type JSONInfoReport struct {
	RepoPath string            `json:"repo,omitempty"`
	Info     map[string]string `json:"info"`
}

// Write outputs the info record as JSON.
func (w *JSONInfoWriter) Write(report *InfoReport, options OutputOptions) error {
	info := make(map[string]string, len(report.Record))
	for k, v := range report.Record {
		info[k] = v
	}
	return writeJSON(JSONInfoReport{RepoPath: report.RepoPath, Info: info}, options.OutputPath)
}

// JSONPollWriter writes poll reports as JSON.
type JSONPollWriter struct{}

// JSONPollReport is the JSON output structure for a poll.
type JSONPollReport struct {
	FeedURL   string `json:"feedUrl"`
	CheckedAt string `json:"checkedAt"`
	Baseline  string `json:"baseline"`
	Current   string `json:"current"`
	Changed   bool   `json:"changed"`
}

// Write outputs the poll result as JSON.
func (w *JSONPollWriter) Write(report *PollReport, options OutputOptions) error {
	return writeJSON(newJSONPollReport(report), options.OutputPath)
}

func newJSONPollReport(report *PollReport) JSONPollReport {
	return JSONPollReport{
		FeedURL:   report.FeedURL,
		CheckedAt: report.CheckedAt.Format(time.RFC3339),
		Baseline:  report.Result.Baseline.ID(),
		Current:   report.Result.Current.ID(),
		Changed:   report.Result.Changed,
	}
}
