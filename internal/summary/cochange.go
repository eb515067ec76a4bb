package summary

import (
	"sort"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// CoChangeOptions configures co-change analysis.
type CoChangeOptions struct {
	MinCount         int // Minimum number of shared entries
	MaxFilesPerEntry int // Entries touching more paths are ignored
	Top              int // Maximum number of pairs returned
}

// DefaultCoChangeOptions returns the options used by Summarize.
func DefaultCoChangeOptions() CoChangeOptions {
	return CoChangeOptions{MinCount: 2, MaxFilesPerEntry: 30, Top: 10}
}

// PathPair is an ordered pair of paths, PathA < PathB.
type PathPair struct {
	PathA string
	PathB string
}

// NewPathPair creates a pair with consistent ordering.
func NewPathPair(a, b string) PathPair {
	if a > b {
		a, b = b, a
	}
	return PathPair{PathA: a, PathB: b}
}

// CoChange describes two paths that were changed by the same checkins.
type CoChange struct {
	PathA   string
	PathB   string
	Count   int     // Entries touching both paths
	Jaccard float64 // |A ∩ B| / |A ∪ B|
}

// CoChangeAnalyzer finds paths that tend to change together.
type CoChangeAnalyzer struct {
	options CoChangeOptions
}

// NewCoChangeAnalyzer creates a new analyzer.
func NewCoChangeAnalyzer(options CoChangeOptions) *CoChangeAnalyzer {
	return &CoChangeAnalyzer{options: options}
}

// Analyze returns co-changed pairs sorted by Jaccard coefficient, then count, then paths.
// Deleted files are not counted.
func (a *CoChangeAnalyzer) Analyze(log *fossil.ChangeLog) []CoChange {
	pathCounts := make(map[string]int)
	pairCounts := make(map[PathPair]int)

	for _, e := range log.Entries() {
		seen := make(map[string]struct{}, len(e.AffectedFiles))
		var paths []string
		for _, af := range e.AffectedFiles {
			if af.EditType == fossil.EditDeleted {
				continue
			}
			if _, ok := seen[af.Path]; ok {
				continue
			}
			seen[af.Path] = struct{}{}
			paths = append(paths, af.Path)
			pathCounts[af.Path]++
		}

		// Large entries are usually imports or sweeping refactors.
		if len(paths) < 2 || len(paths) > a.options.MaxFilesPerEntry {
			continue
		}
		for i := 0; i < len(paths)-1; i++ {
			for j := i + 1; j < len(paths); j++ {
				pairCounts[NewPathPair(paths[i], paths[j])]++
			}
		}
	}

	var pairs []CoChange
	for pair, count := range pairCounts {
		if count < a.options.MinCount {
			continue
		}
		union := pathCounts[pair.PathA] + pathCounts[pair.PathB] - count
		pairs = append(pairs, CoChange{
			PathA:   pair.PathA,
			PathB:   pair.PathB,
			Count:   count,
			Jaccard: float64(count) / float64(union),
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Jaccard != pairs[j].Jaccard {
			return pairs[i].Jaccard > pairs[j].Jaccard
		}
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].PathA != pairs[j].PathA {
			return pairs[i].PathA < pairs[j].PathA
		}
		return pairs[i].PathB < pairs[j].PathB
	})

	if a.options.Top > 0 && len(pairs) > a.options.Top {
		pairs = pairs[:a.options.Top]
	}
	return pairs
}
