package fossil

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter selects affected files by glob patterns.
type PathFilter struct {
	Include []string // Glob patterns to include
	Exclude []string // Glob patterns to exclude
}

// IsEmpty returns true if the filter has no patterns.
func (f PathFilter) IsEmpty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// Validate checks that every pattern is a valid doublestar glob.
func (f PathFilter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Match checks if a path passes the include/exclude patterns.
func (f PathFilter) Match(path string) (bool, error) {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range f.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(f.Include) == 0 {
		return true, nil
	}

	for _, pattern := range f.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

// Filter returns a new ChangeLog whose entries only keep matching affected files.
// Entries themselves are kept even when none of their files match.
func (l *ChangeLog) Filter(f PathFilter) (*ChangeLog, error) {
	if f.IsEmpty() {
		return NewChangeLog(l.entries), nil
	}

	entries := make([]ChangeEntry, 0, l.Len())
	for _, e := range l.entries {
		kept := make([]AffectedFile, 0, len(e.AffectedFiles))
		for _, af := range e.AffectedFiles {
			ok, err := f.Match(af.Path)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, af)
			}
		}
		e.AffectedFiles = kept
		entries = append(entries, e)
	}
	return NewChangeLog(entries), nil
}
