package output

import (
	"fmt"
	"strings"
)

// MarkdownChangeLogWriter writes changelog reports as Markdown.
type MarkdownChangeLogWriter struct{}

// Write outputs the changelog report as Markdown.
func (w *MarkdownChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Header
	fmt.Fprintln(out, "# Fossil Changelog")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	label, value := rangeLabelAndValue(report.OldRevision, report.NewRevision)
	fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	fmt.Fprintf(out, "**Total Entries:** %d\n\n", len(report.Entries))

	fmt.Fprintln(out, "## Checkins")
	fmt.Fprintln(out)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	fmt.Fprintln(out, "| # | Date | Time | Commit | User | Files | Message |")
	fmt.Fprintln(out, "|---|------|------|--------|------|-------|---------|")
	for i, e := range entries {
		fmt.Fprintf(out, "| %d | %s | %s | %s | %s | %d | %s%s |\n",
			i+1, e.Date, e.TimeOfDay, markdownCommit(report, e.CommitID),
			escapeMarkdown(entryUser(e)), len(e.AffectedFiles),
			bugfixMarker(report, e.CommitID), escapeMarkdown(entryHeadline(e)))
	}

	if options.Explain {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Affected Files")
		for _, e := range entries {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "### %s\n\n", markdownCommit(report, e.CommitID))
			if len(e.AffectedFiles) == 0 {
				fmt.Fprintln(out, "_No files._")
				continue
			}
			for _, af := range e.AffectedFiles {
				fmt.Fprintf(out, "- %s `%s`\n", af.EditType, af.Path)
			}
		}
	}

	if s := report.Summary; s != nil && len(s.Paths) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Most Changed Paths")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Path | Touches | Added | Edited | Deleted | Bugfixes |")
		fmt.Fprintln(out, "|------|---------|-------|--------|---------|----------|")
		for _, p := range limitTop(s.Paths, consoleTopPaths) {
			fmt.Fprintf(out, "| `%s` | %d | %d | %d | %d | %d |\n",
				p.Path, p.Touches, p.Added, p.Edited, p.Deleted, p.BugfixCount)
		}
	}

	if s := report.Summary; options.Explain && s != nil && len(s.CoChanges) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Changed Together")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Path A | Path B | Checkins | Jaccard |")
		fmt.Fprintln(out, "|--------|--------|----------|---------|")
		for _, c := range s.CoChanges {
			fmt.Fprintf(out, "| `%s` | `%s` | %d | %.2f |\n", c.PathA, c.PathB, c.Count, c.Jaccard)
		}
	}

	return nil
}

func markdownCommit(report *ChangeLogReport, commitID string) string {
	if url := report.CommitURL(commitID); url != "" {
		return fmt.Sprintf("[`%s`](%s)", commitID, url)
	}
	return "`" + commitID + "`"
}

func bugfixMarker(report *ChangeLogReport, commitID string) string {
	if report.Bugfixes.IsBugfixCommit(commitID) {
		return "🐛 "
	}
	return ""
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
