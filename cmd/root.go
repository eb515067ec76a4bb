package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/config"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "fossil-adapter",
		Usage:   "Changelog and polling tool for Fossil repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			TimelineCmd(),
			ChangesCmd(),
			InfoCmd(),
			PollCmd(),
			MirrorCmd(),
			VersionCheckCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log progress to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log debug details, including skipped timeline lines, to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			slog.SetDefault(newLogger(c.App.ErrWriter, c.Bool("verbose"), c.Bool("debug")))
			return nil
		},
	}
}

// newLogger builds the text logger used by all commands.
// Without --verbose or --debug only warnings are logged.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Flags shared by the commands that talk to a local fossil checkout.
func fossilFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workdir",
			Aliases: []string{"w"},
			Usage:   "Fossil checkout directory (default from config)",
		},
		&cli.StringFlag{
			Name:    "repository",
			Aliases: []string{"R"},
			Usage:   "Fossil repository file passed to fossil with -R",
		},
		&cli.StringFlag{
			Name:  "fossil",
			Usage: "Fossil executable (default from config)",
		},
	}
}

// Flags shared by the commands that render a changelog.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of affected files to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of affected files to exclude (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "bug-patterns",
			Usage: "Regex patterns marking bugfix checkins (default from config)",
		},
		&cli.StringFlag{
			Name:  "browser-url",
			Usage: "Fossil server URL used for checkin links (default: server config)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of checkins to show (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "explain",
			Usage: "Show affected files and per-path statistics",
		},
	}
}

func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := c.String("workdir"); v != "" {
		cfg.Fossil.Workdir = v
	}
	if v := c.String("repository"); v != "" {
		cfg.Fossil.Repository = v
	}
	if v := c.String("fossil"); v != "" {
		cfg.Fossil.Executable = v
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if patterns := c.StringSlice("bug-patterns"); len(patterns) > 0 {
		cfg.Bugfix.Patterns = patterns
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
