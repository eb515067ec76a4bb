package gitmirror

import (
	"context"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// MockRangeReader is a test double for Reader.
type MockRangeReader struct {
	Entries []fossil.ChangeEntry
	Error   error

	Calls [][2]string
}

// NewMockRangeReader creates a new MockRangeReader with the given data.
func NewMockRangeReader(entries []fossil.ChangeEntry, err error) *MockRangeReader {
	return &MockRangeReader{Entries: entries, Error: err}
}

// ReadRange records the call and returns the predefined entries or error.
func (m *MockRangeReader) ReadRange(_ context.Context, oldRev, newRev string) (*fossil.ChangeLog, error) {
	m.Calls = append(m.Calls, [2]string{oldRev, newRev})
	if m.Error != nil {
		return nil, m.Error
	}
	return fossil.NewChangeLog(m.Entries), nil
}

var _ RangeReader = (*MockRangeReader)(nil)
