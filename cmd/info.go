package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

// InfoCmd returns the info command.
func InfoCmd() *cli.Command {
	flags := joinFlags(fossilFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "Read fossil info output from a file (- for stdin) instead of running fossil",
		},
		&cli.BoolFlag{
			Name:  "revision-only",
			Usage: "Print only the checkout revision id",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail when the info block is shorter than expected",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	})

	return &cli.Command{
		Name:   "info",
		Usage:  "Show the fields of `fossil info`",
		Flags:  flags,
		Action: infoAction,
	}
}

func infoAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	var (
		record   fossil.InfoRecord
		repoPath = ctx.RepoPath()
	)
	if path := c.String("file"); path != "" {
		data, err := readInput(c, path)
		if err != nil {
			return err
		}
		repoPath = path
		if c.Bool("strict") {
			if record, err = fossil.ParseInfoStrict(string(data)); err != nil {
				return err
			}
		} else {
			record = fossil.ParseInfo(string(data))
		}
	} else if record, err = ctx.Client.Info(c.Context); err != nil {
		return err
	}

	if c.Bool("revision-only") {
		rev, ok := record.Checkout()
		if !ok {
			return fossil.ErrNoCheckout
		}
		_, err := fmt.Fprintln(c.App.Writer, rev.ID())
		return err
	}

	return writeInfoReport(c, &output.InfoReport{RepoPath: repoPath, Record: record})
}
