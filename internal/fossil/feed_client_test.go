package fossil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeline.rss" || r.URL.Query().Get("y") != "ci" || r.URL.Query().Get("n") != "0" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedClient_FeedURL(t *testing.T) {
	assert.Equal(t, "http://host:8080/timeline.rss?y=ci&n=0", NewFeedClient("http://host:8080/", time.Second).FeedURL())
	assert.Equal(t, "http://host/repo/timeline.rss?y=ci&n=0", NewFeedClient("http://host/repo", time.Second).FeedURL())
}

func TestFeedClient_Latest(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, rssWithItem)

	rev, err := NewFeedClient(srv.URL, 5*time.Second).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bef42e8c2fcc51254daf5fe87b2c562c72abc103", rev.ID())
}

func TestFeedClient_LatestEmptyFeed(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, rssWithoutItem)

	rev, err := NewFeedClient(srv.URL, 5*time.Second).Latest(context.Background())
	require.NoError(t, err)
	assert.True(t, rev.IsZero())
}

func TestFeedClient_LatestBadStatus(t *testing.T) {
	srv := newFeedServer(t, http.StatusInternalServerError, "oops")

	_, err := NewFeedClient(srv.URL, 5*time.Second).Latest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFeedClient_Poll(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, rssWithItem)
	client := NewFeedClient(srv.URL, 5*time.Second)

	unchanged, err := client.Poll(context.Background(), NewRevisionState("bef42e8c2fcc51254daf5fe87b2c562c72abc103"))
	require.NoError(t, err)
	assert.False(t, unchanged.Changed)

	changed, err := client.Poll(context.Background(), NewRevisionState("31eb532808"))
	require.NoError(t, err)
	assert.True(t, changed.Changed)
	assert.Equal(t, "31eb532808", changed.Baseline.ID())
	assert.Equal(t, "bef42e8c2fcc51254daf5fe87b2c562c72abc103", changed.Current.ID())
}

func TestCompare(t *testing.T) {
	assert.False(t, Compare(RevisionState{}, RevisionState{}).Changed)
	assert.True(t, Compare(RevisionState{}, NewRevisionState("a")).Changed)
	assert.True(t, Compare(NewRevisionState("a"), RevisionState{}).Changed)
}
