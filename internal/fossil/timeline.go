package fossil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parserState is the state of the timeline state machine.
type parserState int

const (
	// stateSeeking ignores lines until a day header appears.
	stateSeeking parserState = iota
	// stateExpectCheckin waits for the first checkin line of a day.
	stateExpectCheckin
	// stateBody collects continuations, affected files and further checkins.
	stateBody
)

func (s parserState) String() string {
	switch s {
	case stateSeeking:
		return "seeking"
	case stateExpectCheckin:
		return "expect-checkin"
	case stateBody:
		return "body"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseOptions configures timeline parsing.
type ParseOptions struct {
	// OnMalformed, when set, is called for every discarded line.
	OnMalformed func(*MalformedLineError)
}

// timelineContext carries the entry under construction between transitions.
type timelineContext struct {
	state      parserState
	date       string
	entry      *ChangeEntry
	hasCheckin bool
	entries    []ChangeEntry
	lineNumber int
	opts       ParseOptions
}

func newTimelineContext(opts ParseOptions) *timelineContext {
	return &timelineContext{state: stateSeeking, opts: opts}
}

// ParseTimeline parses `fossil timeline` output into a ChangeLog.
// Malformed lines are skipped; only read failures and internal faults are returned.
func ParseTimeline(r io.Reader, opts ParseOptions) (*ChangeLog, error) {
	ctx := newTimelineContext(opts)
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := ctx.feed(strings.TrimRight(line, "\r\n")); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read timeline: %w", err)
		}
	}

	return ctx.finish(), nil
}

// ParseTimelineBytes parses a timeline held in memory.
func ParseTimelineBytes(data []byte, opts ParseOptions) (*ChangeLog, error) {
	return ParseTimeline(bytes.NewReader(data), opts)
}

// ParseTimelineLines parses a timeline that has already been split into lines.
func ParseTimelineLines(lines []string, opts ParseOptions) (*ChangeLog, error) {
	ctx := newTimelineContext(opts)
	for _, line := range lines {
		if err := ctx.feed(line); err != nil {
			return nil, err
		}
	}
	return ctx.finish(), nil
}

func (c *timelineContext) feed(line string) error {
	c.lineNumber++

	if isDayHeader(line) {
		c.onDayHeader(line)
		return nil
	}

	switch c.state {
	case stateSeeking:
		c.malformed(line, "no day header")
		return nil
	case stateExpectCheckin:
		c.onExpectCheckin(line)
		return nil
	case stateBody:
		return c.onBody(line)
	default:
		return fmt.Errorf("%w: line %d in %s", ErrParserInternal, c.lineNumber, c.state)
	}
}

func (c *timelineContext) onDayHeader(line string) {
	c.emit()

	date, err := column(line, c.lineNumber, dateStart, dateEnd, "day header date")
	if err != nil {
		c.report(err)
		c.state = stateSeeking
		return
	}

	c.date = date
	c.entry = newChangeEntry(date)
	c.hasCheckin = false
	c.state = stateExpectCheckin
}

func (c *timelineContext) onExpectCheckin(line string) {
	if err := c.fillCheckin(line); err != nil {
		c.report(err)
		return
	}
	c.state = stateBody
}

func (c *timelineContext) onBody(line string) error {
	if c.entry == nil {
		return fmt.Errorf("%w: line %d in %s without an open entry", ErrParserInternal, c.lineNumber, c.state)
	}

	if isContinuation(line) {
		c.entry.Message += " " + strings.TrimSpace(line[len(continuationIndent):])
		return nil
	}

	if isCheckinLine(line) {
		c.emit()
		c.entry = newChangeEntry(c.date)
		if err := c.fillCheckin(line); err != nil {
			// Unreachable for lines matching checkinPattern.
			return fmt.Errorf("%w: %v", ErrParserInternal, err)
		}
		return nil
	}

	if editType, path, ok := parseAffectedFile(line); ok {
		c.entry.AffectedFiles = append(c.entry.AffectedFiles, AffectedFile{
			EditType:   editType,
			Path:       path,
			EntryIndex: len(c.entries),
		})
		return nil
	}

	c.malformed(line, "unexpected line in checkin body")
	c.state = stateSeeking
	return nil
}

// fillCheckin extracts time, commit id and message into the open entry.
func (c *timelineContext) fillCheckin(line string) error {
	if !isCheckinLine(line) {
		return &MalformedLineError{LineNumber: c.lineNumber, Line: line, Reason: "not a checkin line"}
	}
	tod, err := column(line, c.lineNumber, timeStart, timeEnd, "time of day")
	if err != nil {
		return err
	}
	id, err := column(line, c.lineNumber, commitStart, commitEnd, "commit id")
	if err != nil {
		return err
	}

	c.entry.TimeOfDay = tod
	c.entry.CommitID = id
	c.entry.Message = tail(line, messageStart)
	c.hasCheckin = true
	return nil
}

// emit appends the open entry if it received a checkin line.
func (c *timelineContext) emit() {
	if c.entry != nil && c.hasCheckin {
		c.entries = append(c.entries, *c.entry)
	}
	c.entry = nil
	c.hasCheckin = false
}

func (c *timelineContext) finish() *ChangeLog {
	c.emit()
	if c.entries == nil {
		c.entries = []ChangeEntry{}
	}
	return &ChangeLog{entries: c.entries}
}

func (c *timelineContext) malformed(line, reason string) {
	c.report(&MalformedLineError{LineNumber: c.lineNumber, Line: line, Reason: reason})
}

func (c *timelineContext) report(err error) {
	if c.opts.OnMalformed == nil {
		return
	}
	var mle *MalformedLineError
	if errors.As(err, &mle) {
		c.opts.OnMalformed(mle)
	}
}
