package output

import (
	"time"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/bugfix"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/summary"
)

// Compile-time interface conformance checks.
var (
	_ ChangeLogWriter = (*ConsoleChangeLogWriter)(nil)
	_ ChangeLogWriter = (*JSONChangeLogWriter)(nil)
	_ ChangeLogWriter = (*CSVChangeLogWriter)(nil)
	_ ChangeLogWriter = (*MarkdownChangeLogWriter)(nil)
	_ ChangeLogWriter = (*CIChangeLogWriter)(nil)

	_ InfoWriter = (*ConsoleInfoWriter)(nil)
	_ InfoWriter = (*JSONInfoWriter)(nil)

	_ PollWriter = (*ConsolePollWriter)(nil)
	_ PollWriter = (*JSONPollWriter)(nil)
	_ PollWriter = (*CIPollWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	Explain    bool
}

// ChangeLogReport holds a parsed changelog ready for rendering.
type ChangeLogReport struct {
	RepoPath    string
	OldRevision string
	NewRevision string
	GeneratedAt time.Time
	// BrowserURL is the Fossil server URL used for checkin links; empty disables links.
	BrowserURL string
	Entries    []fossil.ChangeEntry
	Summary    *summary.Summary
	Bugfixes   *bugfix.BugfixResult
}

// NewChangeLogReport builds a report over log, computing its summary.
func NewChangeLogReport(repoPath string, oldRev, newRev fossil.RevisionState, log *fossil.ChangeLog, bugfixes *bugfix.BugfixResult) *ChangeLogReport {
	return &ChangeLogReport{
		RepoPath:    repoPath,
		OldRevision: oldRev.ID(),
		NewRevision: newRev.ID(),
		GeneratedAt: time.Now(),
		Entries:     log.Entries(),
		Summary:     summary.Summarize(log, bugfixes),
		Bugfixes:    bugfixes,
	}
}

// CommitURL returns the browser link for a checkin, or "".
func (r *ChangeLogReport) CommitURL(commitID string) string {
	return fossil.ChangeSetURL(r.BrowserURL, commitID)
}

// InfoReport holds a parsed `fossil info` block.
type InfoReport struct {
	RepoPath string
	Record   fossil.InfoRecord
}

// PollReport holds the outcome of polling a Fossil server feed.
type PollReport struct {
	FeedURL   string
	CheckedAt time.Time
	Result    fossil.PollResult
}

// ChangeLogWriter writes changelog reports.
type ChangeLogWriter interface {
	Write(report *ChangeLogReport, options OutputOptions) error
}

// InfoWriter writes info reports.
type InfoWriter interface {
	Write(report *InfoReport, options OutputOptions) error
}

// PollWriter writes poll reports.
type PollWriter interface {
	Write(report *PollReport, options OutputOptions) error
}

// NewChangeLogWriter creates a changelog writer for the specified format.
func NewChangeLogWriter(format OutputFormat) ChangeLogWriter {
	switch format {
	case FormatJSON:
		return &JSONChangeLogWriter{}
	case FormatCSV:
		return &CSVChangeLogWriter{}
	case FormatMarkdown:
		return &MarkdownChangeLogWriter{}
	case FormatCI:
		return &CIChangeLogWriter{}
	default:
		return &ConsoleChangeLogWriter{}
	}
}

// NewInfoWriter creates an info writer for the specified format.
func NewInfoWriter(format OutputFormat) InfoWriter {
	switch format {
	case FormatJSON, FormatCI:
		return &JSONInfoWriter{}
	default:
		return &ConsoleInfoWriter{}
	}
}

// NewPollWriter creates a poll writer for the specified format.
func NewPollWriter(format OutputFormat) PollWriter {
	switch format {
	case FormatJSON:
		return &JSONPollWriter{}
	case FormatCI:
		return &CIPollWriter{}
	default:
		return &ConsolePollWriter{}
	}
}
