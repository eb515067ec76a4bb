package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/config"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Client *fossil.Client
}

// NewCommandContext loads configuration and sets up the fossil client.
// The client is only used when a command actually runs fossil.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.Default()
	client := fossil.NewClient(fossil.ClientOptions{
		Executable:    cfg.Fossil.Executable,
		Workdir:       cfg.Fossil.Workdir,
		Repository:    cfg.Fossil.Repository,
		TimelineLimit: cfg.Fossil.TimelineLimit,
		TimelineType:  cfg.Fossil.TimelineType,
		Logger:        logger,
	})

	return &CommandContext{Config: cfg, Logger: logger, Client: client}, nil
}

// PathFilter returns the affected path filter from configuration.
func (ctx *CommandContext) PathFilter() (fossil.PathFilter, error) {
	f := fossil.PathFilter{Include: ctx.Config.Filters.Include, Exclude: ctx.Config.Filters.Exclude}
	if err := f.Validate(); err != nil {
		return fossil.PathFilter{}, err
	}
	return f, nil
}

// ParseOptions returns timeline parse options that log discarded lines.
func (ctx *CommandContext) ParseOptions() fossil.ParseOptions {
	return fossil.ParseOptions{
		OnMalformed: func(e *fossil.MalformedLineError) {
			ctx.Logger.Debug("skipping timeline line", "error", e)
		},
	}
}

// CurrentRevision returns rev when set, otherwise the checkout revision.
func (ctx *CommandContext) CurrentRevision(c *cli.Context, rev string) (fossil.RevisionState, error) {
	if rev != "" {
		return fossil.NewRevisionState(rev), nil
	}
	current, err := ctx.Client.CurrentRevision(c.Context)
	if err != nil {
		return fossil.RevisionState{}, fmt.Errorf("failed to read checkout revision: %w", err)
	}
	ctx.Logger.Info("using checkout revision", "revision", current.ID())
	return current, nil
}

// BrowserURL returns the server URL used for checkin links, if any.
func (ctx *CommandContext) BrowserURL(c *cli.Context) string {
	if v := c.String("browser-url"); v != "" {
		return v
	}
	if ctx.Config.Server.IsConfigured() {
		return ctx.Config.Server.URL()
	}
	return ""
}

// BuildReport filters the changelog, detects bugfixes and assembles the report.
func (ctx *CommandContext) BuildReport(c *cli.Context, repoPath string, oldRev, newRev fossil.RevisionState, log *fossil.ChangeLog) (*output.ChangeLogReport, error) {
	filter, err := ctx.PathFilter()
	if err != nil {
		return nil, err
	}
	if log, err = log.Filter(filter); err != nil {
		return nil, err
	}

	bugfixes, err := detectBugfixes(log, ctx.Config.Bugfix.Patterns)
	if err != nil {
		return nil, err
	}

	report := output.NewChangeLogReport(repoPath, oldRev, newRev, log, bugfixes)
	report.BrowserURL = ctx.BrowserURL(c)
	return report, nil
}

// RepoPath describes where the checkins come from for report headers.
func (ctx *CommandContext) RepoPath() string {
	if ctx.Config.Fossil.Repository != "" {
		return ctx.Config.Fossil.Repository
	}
	return ctx.Config.Fossil.Workdir
}

// readInput reads a file, or the app's stdin when path is "-".
func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		r := c.App.Reader
		if r == nil {
			r = os.Stdin
		}
		return io.ReadAll(r)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		Explain:    c.Bool("explain"),
	}
}
