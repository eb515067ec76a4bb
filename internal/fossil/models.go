package fossil

import "regexp"

// EditType classifies a file mutation recorded in a checkin.
type EditType int

const (
	EditAdded EditType = iota
	EditDeleted
	EditEdited
)

// String returns a string representation of the edit type.
func (e EditType) String() string {
	switch e {
	case EditAdded:
		return "add"
	case EditDeleted:
		return "delete"
	case EditEdited:
		return "edit"
	default:
		return "unknown"
	}
}

// AffectedFile is one file mutation within a ChangeEntry.
type AffectedFile struct {
	EditType EditType
	Path     string
	// EntryIndex is the position of the owning entry in its ChangeLog.
	EntryIndex int
}

// ChangeEntry is one checkin parsed from a timeline.
type ChangeEntry struct {
	Date          string
	TimeOfDay     string
	CommitID      string
	Message       string
	Tags          []string
	IsMerge       bool
	AffectedFiles []AffectedFile
}

// AffectedPaths returns the paths of the entry's affected files in order.
func (e ChangeEntry) AffectedPaths() []string {
	paths := make([]string, len(e.AffectedFiles))
	for i, f := range e.AffectedFiles {
		paths[i] = f.Path
	}
	return paths
}

var userPattern = regexp.MustCompile(`\(user: ([^\s)]+)`)

// User returns the committer recorded in the "(user: name ...)" suffix of the
// checkin comment, or "" when the comment has none.
func (e ChangeEntry) User() string {
	m := userPattern.FindStringSubmatch(e.Message)
	if m == nil {
		return ""
	}
	return m[1]
}

func newChangeEntry(date string) *ChangeEntry {
	return &ChangeEntry{
		Date:          date,
		Tags:          []string{},
		AffectedFiles: []AffectedFile{},
	}
}

// ChangeLog is an ordered, newest-first collection of change entries.
// It is not modified after construction.
type ChangeLog struct {
	entries []ChangeEntry
}

// NewChangeLog builds a ChangeLog owning copies of the given entries.
// Back-links of affected files are rewritten to point at their new positions.
func NewChangeLog(entries []ChangeEntry) *ChangeLog {
	owned := make([]ChangeEntry, len(entries))
	for i, e := range entries {
		owned[i] = cloneEntry(e, i)
	}
	return &ChangeLog{entries: owned}
}

func cloneEntry(e ChangeEntry, index int) ChangeEntry {
	c := e
	c.Tags = append([]string{}, e.Tags...)
	c.AffectedFiles = make([]AffectedFile, len(e.AffectedFiles))
	for j, f := range e.AffectedFiles {
		f.EntryIndex = index
		c.AffectedFiles[j] = f
	}
	return c
}

// Kind returns the kind of changelog this is.
func (l *ChangeLog) Kind() string {
	return "fossil"
}

// Len returns the number of entries.
func (l *ChangeLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// IsEmpty returns true if the changelog has no entries.
func (l *ChangeLog) IsEmpty() bool {
	return l.Len() == 0
}

// Entry returns the entry at index i.
func (l *ChangeLog) Entry(i int) ChangeEntry {
	return cloneEntry(l.entries[i], i)
}

// Entries returns a copy of all entries in order.
func (l *ChangeLog) Entries() []ChangeEntry {
	if l == nil {
		return nil
	}
	out := make([]ChangeEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = cloneEntry(e, i)
	}
	return out
}

// EntryOf resolves the owning entry of an affected file.
func (l *ChangeLog) EntryOf(f AffectedFile) (ChangeEntry, bool) {
	if f.EntryIndex < 0 || f.EntryIndex >= l.Len() {
		return ChangeEntry{}, false
	}
	return l.Entry(f.EntryIndex), true
}

// AffectedPaths returns the affected paths of every entry, in order.
func (l *ChangeLog) AffectedPaths() []string {
	var paths []string
	for _, e := range l.entries {
		paths = append(paths, e.AffectedPaths()...)
	}
	return paths
}

// CommitIDs returns the commit ids of all entries in order.
func (l *ChangeLog) CommitIDs() []string {
	ids := make([]string, l.Len())
	for i := range ids {
		ids[i] = l.entries[i].CommitID
	}
	return ids
}

// RevisionState identifies the tip revision of a repository.
type RevisionState struct {
	id string
}

// NewRevisionState creates a RevisionState for the given revision id.
func NewRevisionState(id string) RevisionState {
	return RevisionState{id: id}
}

// ID returns the revision id.
func (r RevisionState) ID() string {
	return r.id
}

// DisplayName returns the revision id in a form suitable for display.
func (r RevisionState) DisplayName() string {
	return r.id
}

// IsZero returns true if the revision id is empty.
func (r RevisionState) IsZero() bool {
	return r.id == ""
}

// Equal reports whether both states name the same revision.
func (r RevisionState) Equal(other RevisionState) bool {
	return r.id == other.id
}

func (r RevisionState) String() string {
	return "revision " + r.id
}

// Keys of an InfoRecord.
const (
	InfoProjectName  = "project-name"
	InfoRepository   = "repository"
	InfoLocalRoot    = "local-root"
	InfoUserHome     = "user-home"
	InfoProjectCode  = "project-code"
	InfoCheckout     = "checkout"
	InfoCheckoutDate = "checkout-date"
	InfoParent       = "parent"
	InfoParentDate   = "parent-date"
	InfoTags         = "tags"
	InfoComment      = "comment"
)

// InfoKeys lists the InfoRecord keys in the order they appear in `fossil info` output.
var InfoKeys = []string{
	InfoProjectName,
	InfoRepository,
	InfoLocalRoot,
	InfoUserHome,
	InfoProjectCode,
	InfoCheckout,
	InfoCheckoutDate,
	InfoParent,
	InfoParentDate,
	InfoTags,
	InfoComment,
}

// InfoRecord maps `fossil info` labels to their values.
// Keys missing from the parsed block are absent from the map.
type InfoRecord map[string]string

// Checkout returns the current checkout revision, if present.
func (r InfoRecord) Checkout() (RevisionState, bool) {
	id, ok := r[InfoCheckout]
	if !ok || id == "" {
		return RevisionState{}, false
	}
	return NewRevisionState(id), true
}
