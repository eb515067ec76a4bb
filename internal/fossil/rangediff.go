package fossil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// TimelineFetcher produces the raw timeline of all checkins up to and including a revision,
// newest first.
type TimelineFetcher interface {
	TimelineBefore(ctx context.Context, rev RevisionState) ([]byte, error)
}

// TimelineFetcherFunc adapts a function to TimelineFetcher.
type TimelineFetcherFunc func(ctx context.Context, rev RevisionState) ([]byte, error)

// TimelineBefore calls f(ctx, rev).
func (f TimelineFetcherFunc) TimelineBefore(ctx context.Context, rev RevisionState) ([]byte, error) {
	return f(ctx, rev)
}

// RangeDiffer computes the timeline text between two revisions.
//
// Fossil can list a timeline ending at a revision but not between two
// revisions. The older timeline is the tail of the newer one, so the delta is
// the newer timeline cut short by the length of the older. Searching for the
// old revision id instead could match inside a checkin comment.
type RangeDiffer struct {
	Fetcher TimelineFetcher
	// VerifySuffix additionally requires the old timeline to be a byte suffix of the new one.
	VerifySuffix bool
}

// NewRangeDiffer creates a RangeDiffer over the given fetcher.
func NewRangeDiffer(fetcher TimelineFetcher) *RangeDiffer {
	return &RangeDiffer{Fetcher: fetcher}
}

// DiffRange returns the timeline text for checkins newer than oldRev up to and
// including newRev. The two timelines are fetched one after the other; any
// fetch failure abandons the diff.
func (d *RangeDiffer) DiffRange(ctx context.Context, oldRev, newRev RevisionState) ([]byte, error) {
	newer, err := d.fetch(ctx, newRev)
	if err != nil {
		return nil, err
	}
	older, err := d.fetch(ctx, oldRev)
	if err != nil {
		return nil, err
	}
	return Truncate(newer, older, d.VerifySuffix)
}

func (d *RangeDiffer) fetch(ctx context.Context, rev RevisionState) ([]byte, error) {
	data, err := d.Fetcher.TimelineBefore(ctx, rev)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{Revision: rev, Err: err}
	}
	return data, nil
}

// Truncate returns newer without its last len(older) bytes.
// An older timeline longer than the newer one means history changed between
// the fetches and is reported as a fetch failure.
func Truncate(newer, older []byte, verifySuffix bool) ([]byte, error) {
	n := len(newer) - len(older)
	if n < 0 {
		return nil, fmt.Errorf("%w: %w: old timeline is %d bytes, new timeline is %d bytes",
			ErrExternalFetch, ErrHistoryDiverged, len(older), len(newer))
	}
	if verifySuffix && !bytes.HasSuffix(newer, older) {
		return nil, fmt.Errorf("%w: %w: old timeline is not a suffix of new timeline",
			ErrExternalFetch, ErrHistoryDiverged)
	}
	out := make([]byte, n)
	copy(out, newer[:n])
	return out, nil
}
