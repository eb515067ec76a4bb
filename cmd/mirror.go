package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
	"github.com/rjperrella/jenkins-fossil-adapter/internal/gitmirror"
)

// MirrorCmd returns the mirror command.
func MirrorCmd() *cli.Command {
	flags := joinFlags(reportFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to the git mirror of the fossil repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "old",
			Usage: "Git revision of the previous build (default: whole history)",
		},
		&cli.StringFlag{
			Name:  "new",
			Usage: "Git revision of the current build",
			Value: "HEAD",
		},
	})

	return &cli.Command{
		Name:    "mirror",
		Aliases: []string{"m"},
		Usage:   "List the checkins between two revisions of a git mirror",
		Flags:   flags,
		Action:  mirrorAction,
	}
}

func mirrorAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	filter, err := ctx.PathFilter()
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	reader, err := gitmirror.NewReader(gitmirror.ReadOptions{
		RepoPath: repoPath,
		Filter:   filter,
		Logger:   ctx.Logger,
	})
	if err != nil {
		return err
	}

	return writeMirrorRange(c, ctx, reader, repoPath)
}

func writeMirrorRange(c *cli.Context, ctx *CommandContext, reader gitmirror.RangeReader, repoPath string) error {
	oldRev, newRev := c.String("old"), c.String("new")

	log, err := reader.ReadRange(c.Context, oldRev, newRev)
	if err != nil {
		return err
	}
	ctx.Logger.Info("read git mirror", "repo", repoPath, "entries", log.Len())

	report, err := ctx.BuildReport(c, repoPath, fossil.NewRevisionState(oldRev), fossil.NewRevisionState(newRev), log)
	if err != nil {
		return err
	}
	return writeChangeLogReport(c, report)
}
