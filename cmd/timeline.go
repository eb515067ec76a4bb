package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// TimelineCmd returns the timeline command.
func TimelineCmd() *cli.Command {
	flags := joinFlags(fossilFlags(), reportFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "Read timeline text from a file (- for stdin) instead of running fossil",
		},
		&cli.StringFlag{
			Name:  "revision",
			Usage: "Show the timeline before this revision (default: current checkout)",
		},
	})

	return &cli.Command{
		Name:    "timeline",
		Aliases: []string{"t"},
		Usage:   "Parse a fossil timeline into a changelog",
		Flags:   flags,
		Action:  timelineAction,
	}
}

func timelineAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	var (
		data     []byte
		repoPath string
		rev      fossil.RevisionState
	)
	if path := c.String("file"); path != "" {
		if data, err = readInput(c, path); err != nil {
			return err
		}
		repoPath = path
		rev = fossil.NewRevisionState(c.String("revision"))
	} else {
		if rev, err = ctx.CurrentRevision(c, c.String("revision")); err != nil {
			return err
		}
		if data, err = ctx.Client.TimelineBefore(c.Context, rev); err != nil {
			return err
		}
		repoPath = ctx.RepoPath()
	}

	log, err := fossil.ParseTimelineBytes(data, ctx.ParseOptions())
	if err != nil {
		return fmt.Errorf("failed to parse timeline: %w", err)
	}
	ctx.Logger.Info("parsed timeline", "entries", log.Len())

	report, err := ctx.BuildReport(c, repoPath, fossil.RevisionState{}, rev, log)
	if err != nil {
		return err
	}
	return writeChangeLogReport(c, report)
}
