package fossil

import (
	"fmt"
	"regexp"
	"strings"
)

// Fixed column layout of `fossil timeline` output:
//
//	=== 2012-06-10 ===
//	20:34:57 [31eb532808] first checkin. (user: x tags: trunk)
//	         wrapped comment text
//	   EDITED path/to/file
const (
	dayHeaderPrefix = "==="
	dateStart       = 4
	dateEnd         = 14

	timeStart    = 0
	timeEnd      = 8
	commitStart  = 10
	commitEnd    = 20
	messageStart = 22

	continuationIndent = "        "

	addedPrefix   = "   ADDED "
	deletedPrefix = "   DELETED "
	editedPrefix  = "   EDITED "
)

var checkinPattern = regexp.MustCompile(`^\d\d:\d\d:\d\d \[[0-9a-fA-F]{10}\]`)

// column returns line[start:end] or a MalformedLineError when the line is too short.
func column(line string, lineNumber, start, end int, name string) (string, error) {
	if start < 0 || end < start || len(line) < end {
		return "", &MalformedLineError{
			LineNumber: lineNumber,
			Line:       line,
			Reason:     fmt.Sprintf("%s expects columns %d-%d", name, start, end),
		}
	}
	return line[start:end], nil
}

// tail returns line[start:], or "" when the line ends before start.
func tail(line string, start int) string {
	if len(line) <= start {
		return ""
	}
	return line[start:]
}

func isDayHeader(line string) bool {
	return strings.HasPrefix(line, dayHeaderPrefix)
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, continuationIndent)
}

func isCheckinLine(line string) bool {
	return checkinPattern.MatchString(line)
}

// affectedFilePrefixes is ordered by lookup priority.
var affectedFilePrefixes = []struct {
	prefix   string
	editType EditType
}{
	{addedPrefix, EditAdded},
	{deletedPrefix, EditDeleted},
	{editedPrefix, EditEdited},
}

func parseAffectedFile(line string) (EditType, string, bool) {
	for _, p := range affectedFilePrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return p.editType, line[len(p.prefix):], true
		}
	}
	return 0, "", false
}
