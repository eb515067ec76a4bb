package fossil

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine marks a timeline line that does not have the expected shape.
	ErrMalformedLine = errors.New("malformed line")
	// ErrTruncatedInfoBlock marks an info block with fewer lines than required.
	ErrTruncatedInfoBlock = errors.New("truncated info block")
	// ErrMissingFeedGuid marks a feed without a complete <guid> element.
	ErrMissingFeedGuid = errors.New("feed has no guid")
	// ErrExternalFetch marks a failed timeline fetch in a range diff.
	ErrExternalFetch = errors.New("external timeline fetch failed")
	// ErrHistoryDiverged marks a range diff whose older timeline is not a suffix of the newer one.
	ErrHistoryDiverged = errors.New("timeline history diverged")
	// ErrParserInternal marks an unreachable parser state.
	ErrParserInternal = errors.New("internal parser error")
	// ErrNoCheckout is returned when `fossil info` output has no checkout line.
	ErrNoCheckout = errors.New("no checkout revision in info output")
	// ErrUnknownVersion is returned when `fossil version` output cannot be parsed.
	ErrUnknownVersion = errors.New("unrecognized fossil version output")
)

// MalformedLineError describes a skipped timeline line.
type MalformedLineError struct {
	LineNumber int
	Line       string
	Reason     string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.LineNumber, e.Reason, e.Line)
}

func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}

// FetchError wraps a failed timeline fetch for one revision.
type FetchError struct {
	Revision RevisionState
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch timeline before %q: %v", e.Revision.ID(), e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrExternalFetch, e.Err}
}
