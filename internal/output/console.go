package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

const consoleTopPaths = 10

// ConsoleChangeLogWriter writes changelog reports to the console.
type ConsoleChangeLogWriter struct{}

// Write outputs the changelog report to the console.
func (w *ConsoleChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	green := color.New(color.FgGreen)
	green.Fprintln(out, "Fossil Changelog")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	label, value := rangeLabelAndValue(report.OldRevision, report.NewRevision)
	fmt.Fprintf(out, "%s: %s\n", label, value)
	fmt.Fprintf(out, "Total entries: %d\n\n", len(report.Entries))

	if len(entries) == 0 {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDate\tTime\tCommit\tUser\tFiles\tMessage")
	for i, e := range entries {
		commit := e.CommitID
		if report.Bugfixes.IsBugfixCommit(e.CommitID) {
			commit = color.RedString(commit)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			i+1,
			e.Date,
			e.TimeOfDay,
			commit,
			entryUser(e),
			len(e.AffectedFiles),
			truncateMessage(entryHeadline(e), 60),
		)
	}
	tw.Flush()

	if options.Explain {
		fmt.Fprintln(out)
		for _, e := range entries {
			color.New(color.FgCyan).Fprintf(out, "%s", e.CommitID)
			if url := report.CommitURL(e.CommitID); url != "" {
				fmt.Fprintf(out, " %s", url)
			}
			fmt.Fprintln(out)
			for _, af := range e.AffectedFiles {
				fmt.Fprintf(out, "   %-6s %s\n", af.EditType, af.Path)
			}
		}
	}

	if s := report.Summary; s != nil && len(s.Paths) > 0 {
		fmt.Fprintf(out, "\nFiles: %d (added %d, edited %d, deleted %d), merges: %d, bugfixes: %d\n",
			s.TotalFiles(), s.Added, s.Edited, s.Deleted, s.MergeCount, s.BugfixCount)

		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Path\tTouches\tA\tE\tD")
		for _, p := range limitTop(s.Paths, consoleTopPaths) {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", p.Path, p.Touches, p.Added, p.Edited, p.Deleted)
		}
		tw.Flush()
	}

	return nil
}

// ConsoleInfoWriter writes info reports to the console.
type ConsoleInfoWriter struct{}

// Write outputs the info record in `fossil info` order.
func (w *ConsoleInfoWriter) Write(report *InfoReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Fossil Checkout Info")
	if report.RepoPath != "" {
		fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range fossil.InfoKeys {
		value, ok := report.Record[key]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", key, truncateMessage(firstLine(value), 80))
	}
	return tw.Flush()
}

// ConsolePollWriter writes poll reports to the console.
type ConsolePollWriter struct{}

// Write outputs the poll result to the console.
func (w *ConsolePollWriter) Write(report *PollReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	fmt.Fprintf(out, "Feed: %s\n", report.FeedURL)
	fmt.Fprintf(out, "Baseline: %s\n", displayRevision(result.Baseline))
	fmt.Fprintf(out, "Current: %s\n", displayRevision(result.Current))
	if result.Changed {
		color.New(color.FgYellow).Fprintln(out, "Changes detected")
	} else {
		color.New(color.FgGreen).Fprintln(out, "No changes")
	}
	return nil
}

func displayRevision(r fossil.RevisionState) string {
	if r.IsZero() {
		return "(none)"
	}
	return r.DisplayName()
}
