package output

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

func writeToTemp(t *testing.T, name string, write func(OutputOptions) error, options OutputOptions) string {
	t.Helper()
	options.OutputPath = filepath.Join(t.TempDir(), name)
	require.NoError(t, write(options))
	data, err := readTestFile(options.OutputPath)
	require.NoError(t, err)
	return string(data)
}

func TestCIChangeLogWriter_Write(t *testing.T) {
	report := makeReport(t)
	report.BrowserURL = "http://127.0.0.1:8080"

	out := writeToTemp(t, "ci.ndjson", func(o OutputOptions) error {
		return (&CIChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatCI})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3) // 1 summary + 2 entries

	var summary CISummary
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &summary))
	assert.Equal(t, "summary", summary.Type)
	assert.Equal(t, 2, summary.TotalEntries)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 1, summary.Edited)
	assert.Equal(t, 1, summary.Bugfixes)
	assert.Equal(t, "31eb532808", summary.OldRevision)

	var entry CIEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "entry", entry.Type)
	assert.Equal(t, "bef42e8c2f", entry.CommitID)
	assert.Equal(t, "jdoe", entry.User)
	assert.True(t, entry.IsBugfix)
	assert.Equal(t, "http://127.0.0.1:8080/info/bef42e8c2f", entry.URL)
}

func TestCIChangeLogWriter_ExplainAndTop(t *testing.T) {
	out := writeToTemp(t, "ci.ndjson", func(o OutputOptions) error {
		return (&CIChangeLogWriter{}).Write(makeReport(t), o)
	}, OutputOptions{Format: FormatCI, Top: 1, Explain: true})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4) // summary + 1 entry + 2 files

	var file CIFile
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &file))
	assert.Equal(t, CIFile{Type: "file", CommitID: "bef42e8c2f", Action: "add", Path: "b.txt"}, file)
}

func TestJSONChangeLogWriter_Write(t *testing.T) {
	report := makeReport(t)
	report.GeneratedAt = time.Date(2012, 6, 12, 0, 0, 0, 0, time.UTC)

	out := writeToTemp(t, "report.json", func(o OutputOptions) error {
		return (&JSONChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatJSON, Explain: true})

	var decoded JSONChangeLogReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "/test/repo", decoded.RepoPath)
	assert.Equal(t, "2012-06-12T00:00:00Z", decoded.GeneratedAt)
	assert.Equal(t, 2, decoded.TotalEntries)
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "bef42e8c2f", decoded.Entries[0].CommitID)
	assert.Equal(t, []string{}, decoded.Entries[0].Tags)
	assert.Empty(t, decoded.Entries[0].URL)
	assert.Equal(t, []JSONFile{{Action: "edit", Path: "a.txt"}, {Action: "add", Path: "b.txt"}}, decoded.Entries[0].Files)
	require.Len(t, decoded.Summary.Paths, 2)
	assert.Equal(t, "a.txt", decoded.Summary.Paths[0].Path)
	assert.Equal(t, 2, decoded.Summary.Paths[0].Touches)
}

func TestJSONChangeLogWriter_NoExplain(t *testing.T) {
	out := writeToTemp(t, "report.json", func(o OutputOptions) error {
		return (&JSONChangeLogWriter{}).Write(makeReport(t), o)
	}, OutputOptions{Format: FormatJSON, Top: 1})

	var decoded JSONChangeLogReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.TotalEntries)
	require.Len(t, decoded.Entries, 1)
	assert.Nil(t, decoded.Entries[0].Files)
	assert.Nil(t, decoded.Summary.Paths)
}

func TestCSVChangeLogWriter_Write(t *testing.T) {
	report := makeReport(t)
	report.BrowserURL = "http://host"

	out := writeToTemp(t, "report.csv", func(o OutputOptions) error {
		return (&CSVChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatCSV, Explain: true})

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Date", "Time", "CommitID", "User", "IsMerge", "IsBugfix",
		"FileCount", "Directories", "Subsystems", "Added", "Edited", "Deleted", "Message", "URL", "AffectedFiles"}, records[0])
	assert.Equal(t, []string{"2012-06-11", "09:12:03", "bef42e8c2f", "jdoe", "false", "true",
		"2", "0", "1", "1", "1", "0", "fix | escaping (user: jdoe tags: trunk)", "http://host/info/bef42e8c2f",
		"edit:a.txt;add:b.txt"}, records[1])
}

func TestMarkdownChangeLogWriter_Write(t *testing.T) {
	report := makeReport(t)
	report.BrowserURL = "http://host"

	out := writeToTemp(t, "report.md", func(o OutputOptions) error {
		return (&MarkdownChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatMarkdown, Explain: true})

	assert.Contains(t, out, "# Fossil Changelog")
	assert.Contains(t, out, "**Range:** 31eb532808..bef42e8c2f")
	assert.Contains(t, out, "[`bef42e8c2f`](http://host/info/bef42e8c2f)")
	assert.Contains(t, out, "fix \\| escaping")
	assert.Contains(t, out, "## Affected Files")
	assert.Contains(t, out, "- add `b.txt`")
	assert.Contains(t, out, "| `a.txt` | 2 | 1 | 1 | 0 | 1 |")
}

func TestMarkdownChangeLogWriter_Empty(t *testing.T) {
	report := NewChangeLogReport("/r", fossil.RevisionState{}, fossil.NewRevisionState("abc"), fossil.NewChangeLog(nil), nil)

	out := writeToTemp(t, "report.md", func(o OutputOptions) error {
		return (&MarkdownChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatMarkdown})

	assert.Contains(t, out, "**Until:** abc")
	assert.Contains(t, out, "No changes.")
}

func TestConsoleChangeLogWriter_Write(t *testing.T) {
	out := writeToTemp(t, "report.txt", func(o OutputOptions) error {
		return (&ConsoleChangeLogWriter{}).Write(makeReport(t), o)
	}, OutputOptions{Format: FormatConsole, Explain: true})

	assert.Contains(t, out, "Fossil Changelog")
	assert.Contains(t, out, "Repository: /test/repo")
	assert.Contains(t, out, "Total entries: 2")
	assert.Contains(t, out, "31eb532808")
	assert.Contains(t, out, "add    b.txt")
	assert.Contains(t, out, "Files: 2 (added 2, edited 1, deleted 0), merges: 0, bugfixes: 1")
}

func TestInfoWriters(t *testing.T) {
	report := &InfoReport{
		RepoPath: "/test/repo",
		Record: fossil.InfoRecord{
			fossil.InfoCheckout: "886b406bcf4276879cc9d1c9869772991aeaf21e",
			fossil.InfoTags:     "trunk",
			fossil.InfoComment:  "made a comment here.\nmore stuff.\n",
		},
	}

	console := writeToTemp(t, "info.txt", func(o OutputOptions) error {
		return (&ConsoleInfoWriter{}).Write(report, o)
	}, OutputOptions{})
	assert.Contains(t, console, "886b406bcf4276879cc9d1c9869772991aeaf21e")
	assert.Contains(t, console, "made a comment here.")
	assert.NotContains(t, console, "more stuff.")
	assert.Less(t, strings.Index(console, "checkout:"), strings.Index(console, "tags:"))

	raw := writeToTemp(t, "info.json", func(o OutputOptions) error {
		return (&JSONInfoWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatJSON})
	var decoded JSONInfoReport
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "trunk", decoded.Info[fossil.InfoTags])
	assert.Equal(t, "made a comment here.\nmore stuff.\n", decoded.Info[fossil.InfoComment])
}

func TestPollWriters(t *testing.T) {
	report := &PollReport{
		FeedURL:   "http://host/timeline.rss?y=ci&n=0",
		CheckedAt: time.Date(2012, 6, 12, 0, 0, 0, 0, time.UTC),
		Result:    fossil.Compare(fossil.NewRevisionState("aaa"), fossil.NewRevisionState("bbb")),
	}

	console := writeToTemp(t, "poll.txt", func(o OutputOptions) error {
		return (&ConsolePollWriter{}).Write(report, o)
	}, OutputOptions{})
	assert.Contains(t, console, "Baseline: aaa")
	assert.Contains(t, console, "Current: bbb")
	assert.Contains(t, console, "Changes detected")

	ci := writeToTemp(t, "poll.ndjson", func(o OutputOptions) error {
		return (&CIPollWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatCI})
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ci), &line))
	assert.Equal(t, "poll", line["type"])
	assert.Equal(t, true, line["changed"])
	assert.Equal(t, "bbb", line["current"])

	unchanged := &PollReport{Result: fossil.Compare(fossil.RevisionState{}, fossil.RevisionState{})}
	console = writeToTemp(t, "poll2.txt", func(o OutputOptions) error {
		return (&ConsolePollWriter{}).Write(unchanged, o)
	}, OutputOptions{})
	assert.Contains(t, console, "Baseline: (none)")
	assert.Contains(t, console, "No changes")
}

func TestChangedTogether(t *testing.T) {
	files := []fossil.AffectedFile{{Path: "x.go", EditType: fossil.EditEdited}, {Path: "y.go", EditType: fossil.EditEdited}}
	log := fossil.NewChangeLog([]fossil.ChangeEntry{
		{CommitID: "aaa1111111", AffectedFiles: files},
		{CommitID: "bbb2222222", AffectedFiles: files},
	})
	report := NewChangeLogReport("/r", fossil.RevisionState{}, fossil.NewRevisionState("aaa1111111"), log, nil)

	md := writeToTemp(t, "report.md", func(o OutputOptions) error {
		return (&MarkdownChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatMarkdown, Explain: true})
	assert.Contains(t, md, "## Changed Together")
	assert.Contains(t, md, "| `x.go` | `y.go` | 2 | 1.00 |")

	raw := writeToTemp(t, "report.json", func(o OutputOptions) error {
		return (&JSONChangeLogWriter{}).Write(report, o)
	}, OutputOptions{Format: FormatJSON, Explain: true})
	var decoded JSONChangeLogReport
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, []JSONPair{{PathA: "x.go", PathB: "y.go", Count: 2, Jaccard: 1}}, decoded.Summary.CoChanges)
}
