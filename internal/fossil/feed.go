package fossil

import (
	"strings"
)

const (
	guidOpen  = "<guid>"
	guidClose = "</guid>"
)

// ParseFeed returns the revision named by the first <guid> of a Fossil
// timeline.rss feed. A feed without a complete guid element yields an empty
// RevisionState.
func ParseFeed(feed string) RevisionState {
	guid, err := ExtractFeedGUID(feed)
	if err != nil {
		return RevisionState{}
	}
	return NewRevisionState(guid)
}

// ExtractFeedGUID returns the last path segment of the first <guid> element.
// It does not parse XML: the feed is scanned for the literal markers.
func ExtractFeedGUID(feed string) (string, error) {
	start := strings.Index(feed, guidOpen)
	if start < 0 {
		return "", ErrMissingFeedGuid
	}
	start += len(guidOpen)

	end := strings.Index(feed[start:], guidClose)
	if end < 0 {
		return "", ErrMissingFeedGuid
	}

	url := strings.TrimSpace(feed[start : start+end])
	return url[strings.LastIndexByte(url, '/')+1:], nil
}
