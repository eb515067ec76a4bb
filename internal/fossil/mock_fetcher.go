package fossil

import "context"

// MockTimelineFetcher is a test double for Client.TimelineBefore.
// It serves predefined timelines keyed by revision id and records the calls it receives.
type MockTimelineFetcher struct {
	Timelines map[string][]byte
	Errors    map[string]error
	Calls     []RevisionState
}

// NewMockTimelineFetcher creates a MockTimelineFetcher with the given timelines.
func NewMockTimelineFetcher(timelines map[string][]byte) *MockTimelineFetcher {
	return &MockTimelineFetcher{
		Timelines: timelines,
		Errors:    map[string]error{},
	}
}

// TimelineBefore returns the predefined timeline or error for rev.
func (m *MockTimelineFetcher) TimelineBefore(_ context.Context, rev RevisionState) ([]byte, error) {
	m.Calls = append(m.Calls, rev)
	if err, ok := m.Errors[rev.ID()]; ok {
		return nil, err
	}
	return m.Timelines[rev.ID()], nil
}

// Compile-time interface conformance checks.
var (
	_ TimelineFetcher = (*MockTimelineFetcher)(nil)
	_ TimelineFetcher = (*Client)(nil)
	_ TimelineFetcher = TimelineFetcherFunc(nil)
)
