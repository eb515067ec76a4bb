package summary

import (
	"sort"
	"strings"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/bugfix"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// PathStats holds aggregated change counts for a single path.
type PathStats struct {
	Path         string
	Added        int
	Edited       int
	Deleted      int
	Touches      int // Entries that touched the path
	BugfixCount  int
	LastDate     string
	LastCommitID string
	Users        map[string]struct{}
}

// NewPathStats creates a new PathStats instance.
func NewPathStats(path string) *PathStats {
	return &PathStats{
		Path:  path,
		Users: make(map[string]struct{}),
	}
}

// Operations returns the number of recorded file operations.
func (p *PathStats) Operations() int {
	return p.Added + p.Edited + p.Deleted
}

// UserCount returns the number of distinct committers.
func (p *PathStats) UserCount() int {
	return len(p.Users)
}

// Summary aggregates a changelog.
type Summary struct {
	TotalEntries int
	MergeCount   int
	BugfixCount  int
	Added        int
	Edited       int
	Deleted      int
	// Paths is sorted by touches, descending, then by path.
	Paths []*PathStats
	// CoChanges lists paths that were repeatedly changed together.
	CoChanges []CoChange
}

// TotalFiles returns the number of distinct paths touched.
func (s *Summary) TotalFiles() int {
	return len(s.Paths)
}

// PathAggregator aggregates per-path statistics from changelog entries.
type PathAggregator struct {
	stats   map[string]*PathStats
	bugfix  *bugfix.BugfixResult
	summary Summary
}

// NewPathAggregator creates a new aggregator. bugfixes may be nil.
func NewPathAggregator(bugfixes *bugfix.BugfixResult) *PathAggregator {
	return &PathAggregator{
		stats:  make(map[string]*PathStats),
		bugfix: bugfixes,
	}
}

// Process aggregates every entry of the changelog and returns the summary.
// Entries are visited newest first, so the first visit of a path sets its last change.
func (a *PathAggregator) Process(log *fossil.ChangeLog) *Summary {
	for _, e := range log.Entries() {
		a.processEntry(e)
	}
	s := a.Summary()
	s.CoChanges = NewCoChangeAnalyzer(DefaultCoChangeOptions()).Analyze(log)
	return s
}

func (a *PathAggregator) processEntry(e fossil.ChangeEntry) {
	a.summary.TotalEntries++
	if e.IsMerge {
		a.summary.MergeCount++
	}
	isBugfix := a.bugfix.IsBugfixCommit(e.CommitID)
	if isBugfix {
		a.summary.BugfixCount++
	}
	user := strings.ToLower(e.User())

	touched := make(map[string]struct{}, len(e.AffectedFiles))
	for _, af := range e.AffectedFiles {
		ps, exists := a.stats[af.Path]
		if !exists {
			ps = NewPathStats(af.Path)
			ps.LastDate = e.Date
			ps.LastCommitID = e.CommitID
			a.stats[af.Path] = ps
		}

		switch af.EditType {
		case fossil.EditAdded:
			ps.Added++
			a.summary.Added++
		case fossil.EditDeleted:
			ps.Deleted++
			a.summary.Deleted++
		default:
			ps.Edited++
			a.summary.Edited++
		}

		if _, seen := touched[af.Path]; seen {
			continue
		}
		touched[af.Path] = struct{}{}
		ps.Touches++
		if isBugfix && af.EditType != fossil.EditDeleted {
			ps.BugfixCount++
		}
		if user != "" {
			ps.Users[user] = struct{}{}
		}
	}
}

// Summary returns the aggregated summary with sorted paths.
func (a *PathAggregator) Summary() *Summary {
	s := a.summary
	s.Paths = make([]*PathStats, 0, len(a.stats))
	for _, ps := range a.stats {
		s.Paths = append(s.Paths, ps)
	}
	sort.Slice(s.Paths, func(i, j int) bool {
		if s.Paths[i].Touches != s.Paths[j].Touches {
			return s.Paths[i].Touches > s.Paths[j].Touches
		}
		return s.Paths[i].Path < s.Paths[j].Path
	})
	return &s
}

// Summarize aggregates a changelog in one call.
func Summarize(log *fossil.ChangeLog, bugfixes *bugfix.BugfixResult) *Summary {
	return NewPathAggregator(bugfixes).Process(log)
}
