package bugfix

import (
	"regexp"
	"strings"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// BugfixResult holds the result of bugfix detection over a changelog.
type BugfixResult struct {
	// BugfixCommits is the set of commit ids identified as bugfix checkins.
	BugfixCommits map[string]struct{}
	// FileBugfixCounts maps file paths to the number of bugfix checkins that touched them.
	FileBugfixCounts map[string]int
	// TotalBugfixes is the total number of bugfix commits detected.
	TotalBugfixes int
}

// Detector detects bugfix commits by matching commit messages against regex patterns.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector creates a new Detector from a list of regex pattern strings.
// Patterns are compiled as case-insensitive. Returns an error if any pattern fails to compile.
func NewDetector(patterns []string) (*Detector, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Add case-insensitive flag if not already present
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// IsBugfix returns true if the given commit message matches any of the detector's patterns.
func (d *Detector) IsBugfix(message string) bool {
	for _, re := range d.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// IsBugfixEntry reports whether the entry's checkin comment marks a bugfix.
func (d *Detector) IsBugfixEntry(e fossil.ChangeEntry) bool {
	return d.IsBugfix(e.Message)
}

// Detect scans the changelog and returns the bugfix detection result.
// Deleted files are not counted.
func (d *Detector) Detect(log *fossil.ChangeLog) *BugfixResult {
	result := &BugfixResult{
		BugfixCommits:    make(map[string]struct{}),
		FileBugfixCounts: make(map[string]int),
	}

	if len(d.patterns) == 0 {
		return result
	}

	for _, e := range log.Entries() {
		if !d.IsBugfixEntry(e) {
			continue
		}

		result.BugfixCommits[e.CommitID] = struct{}{}
		result.TotalBugfixes++

		for _, af := range e.AffectedFiles {
			if af.EditType == fossil.EditDeleted {
				continue
			}
			result.FileBugfixCounts[af.Path]++
		}
	}

	return result
}

// IsBugfixCommit reports whether commitID was detected as a bugfix.
func (r *BugfixResult) IsBugfixCommit(commitID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.BugfixCommits[commitID]
	return ok
}
