package fossil

import (
	"regexp"
	"strings"
)

// ClientInfo describes the fossil executable, as reported by `fossil version`.
type ClientInfo struct {
	Version string
	Checkin string
	Date    string
}

var versionPattern = regexp.MustCompile(`version\s+(\S+)\s+\[([0-9a-fA-F]+)\]\s*(.*)$`)

// ParseVersion parses `fossil version` output, e.g.
// "This is fossil version 1.22 [5dd5d39e7c] 2012-03-19 12:45:47 UTC".
func ParseVersion(output string) (ClientInfo, error) {
	for _, line := range strings.Split(output, "\n") {
		m := versionPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		return ClientInfo{
			Version: m[1],
			Checkin: m[2],
			Date:    strings.TrimSpace(m[3]),
		}, nil
	}
	return ClientInfo{}, ErrUnknownVersion
}
