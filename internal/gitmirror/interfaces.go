package gitmirror

import (
	"context"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// RangeReader defines the interface for reading a changelog between two revisions.
type RangeReader interface {
	ReadRange(ctx context.Context, oldRev, newRev string) (*fossil.ChangeLog, error)
}

// Compile-time interface conformance check.
var _ RangeReader = (*Reader)(nil)
