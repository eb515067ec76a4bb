package fossil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

const (
	defaultExecutable = "fossil"
	// DefaultTimelineLimit asks fossil for an effectively unbounded timeline.
	DefaultTimelineLimit = 2000000
	// DefaultTimelineType restricts timelines to checkins.
	DefaultTimelineType = "ci"
)

// CommandRunner runs a command in dir and returns its standard output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ClientOptions configures a Client.
type ClientOptions struct {
	Executable    string
	Workdir       string
	Repository    string
	TimelineLimit int
	TimelineType  string
	Logger        *slog.Logger
	Runner        CommandRunner
}

// Client runs the fossil command-line client.
type Client struct {
	opts ClientOptions
}

// NewClient creates a client, filling in defaults for empty options.
func NewClient(opts ClientOptions) *Client {
	if strings.TrimSpace(opts.Executable) == "" {
		opts.Executable = defaultExecutable
	}
	if opts.Workdir == "" {
		opts.Workdir = "."
	}
	if opts.TimelineLimit <= 0 {
		opts.TimelineLimit = DefaultTimelineLimit
	}
	if opts.TimelineType == "" {
		opts.TimelineType = DefaultTimelineType
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Runner == nil {
		opts.Runner = execRunner
	}
	return &Client{opts: opts}
}

// Executable returns the fossil executable the client runs.
func (c *Client) Executable() string {
	return c.opts.Executable
}

// TimelineBefore runs `fossil timeline before <rev>` and returns its raw output.
// The output is not normalized: RangeDiffer relies on byte-identical tails.
func (c *Client) TimelineBefore(ctx context.Context, rev RevisionState) ([]byte, error) {
	if rev.IsZero() {
		return nil, &FetchError{Revision: rev, Err: errors.New("empty revision id")}
	}

	args := []string{
		"timeline", "before", rev.ID(),
		"-n", strconv.Itoa(c.opts.TimelineLimit),
		"-t", c.opts.TimelineType,
	}
	args = c.withRepository(args)

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, &FetchError{Revision: rev, Err: err}
	}
	return out, nil
}

// Info runs `fossil info` in the working directory and parses the result.
func (c *Client) Info(ctx context.Context) (InfoRecord, error) {
	out, err := c.run(ctx, "info")
	if err != nil {
		return nil, fmt.Errorf("fossil info: %w", err)
	}
	return ParseInfo(string(out)), nil
}

// CurrentRevision returns the checkout revision of the working directory.
func (c *Client) CurrentRevision(ctx context.Context) (RevisionState, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return RevisionState{}, err
	}
	rev, ok := info.Checkout()
	if !ok {
		c.opts.Logger.Warn("unable to determine checkout revision", "workdir", c.opts.Workdir)
		return RevisionState{}, ErrNoCheckout
	}
	return rev, nil
}

// Version runs `fossil version`.
func (c *Client) Version(ctx context.Context) (ClientInfo, error) {
	out, err := c.run(ctx, "version")
	if err != nil {
		return ClientInfo{}, fmt.Errorf("fossil version: %w", err)
	}
	return ParseVersion(string(out))
}

func (c *Client) withRepository(args []string) []string {
	if c.opts.Repository != "" {
		args = append(args, "-R", c.opts.Repository)
	}
	return args
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	c.opts.Logger.Debug("running fossil", "executable", c.opts.Executable, "args", args, "dir", c.opts.Workdir)
	out, err := c.opts.Runner(ctx, c.opts.Workdir, c.opts.Executable, args...)
	if err != nil {
		c.opts.Logger.Warn("fossil command failed", "args", args, "error", err)
		return nil, err
	}
	c.opts.Logger.Debug("fossil command finished", "args", args, "bytes", len(out))
	return out, nil
}

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
