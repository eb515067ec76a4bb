package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

var errChangesDetected = errors.New("remote repository has new checkins")

// PollCmd returns the poll command.
func PollCmd() *cli.Command {
	flags := joinFlags(fossilFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:  "server-url",
			Usage: "Fossil server URL (default: server config)",
		},
		&cli.StringFlag{
			Name:  "feed-file",
			Usage: "Read the RSS feed from a file (- for stdin) instead of the server",
		},
		&cli.StringFlag{
			Name:  "baseline",
			Usage: "Revision of the last build (default: current checkout)",
		},
		&cli.BoolFlag{
			Name:  "fail-on-change",
			Usage: "Exit with an error when the remote tip differs from the baseline",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, ci)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	})

	return &cli.Command{
		Name:    "poll",
		Aliases: []string{"p"},
		Usage:   "Check a Fossil server for checkins newer than the baseline",
		Flags:   flags,
		Action:  pollAction,
	}
}

func pollAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	baseline, err := ctx.CurrentRevision(c, c.String("baseline"))
	if err != nil {
		return err
	}

	report := &output.PollReport{CheckedAt: time.Now()}
	if path := c.String("feed-file"); path != "" {
		data, err := readInput(c, path)
		if err != nil {
			return err
		}
		report.FeedURL = path
		report.Result = fossil.Compare(baseline, fossil.ParseFeed(string(data)))
	} else {
		fetchURL, displayURL, err := ctx.serverURLs(c)
		if err != nil {
			return err
		}
		client := fossil.NewFeedClient(fetchURL, ctx.Config.Feed.Timeout())
		report.FeedURL = fossil.NewFeedClient(displayURL, 0).FeedURL()

		ctx.Logger.Info("polling feed", "url", report.FeedURL)
		if report.Result, err = client.Poll(c.Context, baseline); err != nil {
			return fmt.Errorf("failed to poll %s: %w", report.FeedURL, err)
		}
	}

	if err := writePollReport(c, report); err != nil {
		return err
	}
	if report.Result.Changed && c.Bool("fail-on-change") {
		return errChangesDetected
	}
	return nil
}

// serverURLs returns the URL to fetch from, which may carry credentials,
// and the same URL without credentials for display.
func (ctx *CommandContext) serverURLs(c *cli.Context) (string, string, error) {
	if v := c.String("server-url"); v != "" {
		return v, v, nil
	}
	if !ctx.Config.Server.IsConfigured() {
		return "", "", errors.New("no fossil server configured: set server.host or use --server-url")
	}
	return ctx.Config.Server.AuthenticatedURL(), ctx.Config.Server.URL(), nil
}
