package fossil

import (
	"fmt"
	"strings"
)

// `fossil info` output looks like:
//
//	project-name: Blabla
//	repository:   C:/src/blabla/blabla
//	local-root:   C:/src/myroot/
//	user-home:    C:/Users/username/AppData/Local
//	project-code: 640e13fdd114a5894d9fa42576432cf51379b6be
//	checkout:     886b406bcf4276879cc9d1c9869772991aeaf21e 2012-06-02 22:42:54 UTC
//	parent:       2dd1b06dcc27781581f2bd2cbe269458ccf0b4ee 2012-06-02 22:18:35 UTC
//	tags:         trunk
//	comment:      made a comment here. (user: user2)
//	              more stuff.
const (
	infoMinLines     = 9
	infoValueColumn  = 14
	infoDateColumn   = 55
	infoCommentLabel = "comment:"
)

// ParseInfo parses a `fossil info` block. Blocks shorter than nine lines
// yield an empty record; lines whose label is not where it is expected are
// left out of the record.
func ParseInfo(text string) InfoRecord {
	record, _ := ParseInfoStrict(text)
	return record
}

// ParseInfoStrict is ParseInfo but reports ErrTruncatedInfoBlock for short input.
// The returned record is never nil.
func ParseInfoStrict(text string) (InfoRecord, error) {
	record := InfoRecord{}

	lines := splitInfoLines(text)
	if len(lines) < infoMinLines {
		return record, fmt.Errorf("%w: %d lines, need %d", ErrTruncatedInfoBlock, len(lines), infoMinLines)
	}

	i := 0
	for _, key := range []string{InfoProjectName, InfoRepository, InfoLocalRoot, InfoUserHome, InfoProjectCode} {
		if value, ok := labelledValue(lines[i], key); ok {
			record[key] = value
		}
		i++
	}

	for _, rev := range []struct{ key, dateKey string }{
		{InfoCheckout, InfoCheckoutDate},
		{InfoParent, InfoParentDate},
	} {
		if value, ok := labelledValue(lines[i], rev.key); ok {
			record[rev.key] = firstToken(value)
			record[rev.dateKey] = strings.TrimSpace(tail(lines[i], infoDateColumn))
		}
		i++
	}

	if _, ok := labelledValue(lines[i], InfoTags); ok {
		record[InfoTags] = strings.TrimSpace(tail(lines[i], infoValueColumn))
	}
	i++

	if strings.HasPrefix(lines[i], infoCommentLabel) {
		var sb strings.Builder
		for ; i < len(lines); i++ {
			sb.WriteString(strings.TrimSpace(tail(lines[i], infoValueColumn)))
			sb.WriteByte('\n')
		}
		record[InfoComment] = sb.String()
	} else {
		record[InfoComment] = "no comment block found. Found:'" + lines[i] + "'"
	}

	return record, nil
}

// splitInfoLines splits on newlines, dropping carriage returns and trailing blank lines.
func splitInfoLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// labelledValue returns the text after "<key>:" when the line's first token is that label.
func labelledValue(line, key string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 || fields[0] != key+":" {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(fields[0]):]), true
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
