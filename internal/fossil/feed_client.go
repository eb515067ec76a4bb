package fossil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const feedPath = "/timeline.rss?y=ci&n=0"

// FeedClient reads the tip revision from a Fossil server's timeline feed.
type FeedClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFeedClient creates a feed client for the server at baseURL.
func NewFeedClient(baseURL string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// FeedURL returns the URL of the checkin feed.
func (c *FeedClient) FeedURL() string {
	return strings.TrimRight(c.BaseURL, "/") + feedPath
}

// Latest fetches the feed and returns the most recent checkin.
// A feed without a guid yields an empty RevisionState, not an error.
func (c *FeedClient) Latest(ctx context.Context) (RevisionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL(), nil)
	if err != nil {
		return RevisionState{}, fmt.Errorf("build feed request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return RevisionState{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RevisionState{}, fmt.Errorf("fetch feed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RevisionState{}, fmt.Errorf("read feed: %w", err)
	}

	return ParseFeed(string(body)), nil
}

// PollResult is the outcome of comparing the remote tip with a baseline.
type PollResult struct {
	Baseline RevisionState
	Current  RevisionState
	Changed  bool
}

// Poll compares the remote tip with baseline.
func (c *FeedClient) Poll(ctx context.Context, baseline RevisionState) (PollResult, error) {
	current, err := c.Latest(ctx)
	if err != nil {
		return PollResult{}, err
	}
	return Compare(baseline, current), nil
}

// Compare reports whether current differs from baseline.
func Compare(baseline, current RevisionState) PollResult {
	return PollResult{
		Baseline: baseline,
		Current:  current,
		Changed:  !baseline.Equal(current),
	}
}
