package fossil

import "strings"

// ChangeSetURL returns the Fossil web UI link for a checkin, or "" when no
// server URL is configured.
func ChangeSetURL(serverURL, commitID string) string {
	if serverURL == "" || commitID == "" {
		return ""
	}
	if !strings.HasSuffix(serverURL, "/") {
		serverURL += "/"
	}
	return serverURL + "info/" + commitID
}
