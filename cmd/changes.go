package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/fossil"
)

// ChangesCmd returns the changes command.
func ChangesCmd() *cli.Command {
	flags := joinFlags(fossilFlags(), reportFlags(), []cli.Flag{
		&cli.StringFlag{
			Name:     "old",
			Usage:    "Revision of the previous build",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "new",
			Usage: "Revision of the current build (default: current checkout)",
		},
		&cli.StringFlag{
			Name:  "changelog",
			Usage: "Also write the raw timeline delta to this file",
		},
		&cli.BoolFlag{
			Name:  "verify-suffix",
			Usage: "Fail when the older timeline is not a suffix of the newer one",
		},
	})

	return &cli.Command{
		Name:    "changes",
		Aliases: []string{"ch"},
		Usage:   "List the checkins between two revisions",
		Flags:   flags,
		Action:  changesAction,
	}
}

func changesAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	oldRev := fossil.NewRevisionState(c.String("old"))
	newRev, err := ctx.CurrentRevision(c, c.String("new"))
	if err != nil {
		return err
	}

	differ := fossil.NewRangeDiffer(ctx.Client)
	differ.VerifySuffix = ctx.Config.Diff.VerifySuffix || c.Bool("verify-suffix")

	data, err := differ.DiffRange(c.Context, oldRev, newRev)
	if err != nil {
		if errors.Is(err, fossil.ErrHistoryDiverged) {
			ctx.Logger.Warn("timeline history changed between fetches", "old", oldRev.ID(), "new", newRev.ID())
		}
		return fmt.Errorf("failed to compute changes: %w", err)
	}

	if path := c.String("changelog"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write changelog: %w", err)
		}
		ctx.Logger.Info("wrote changelog", "path", path, "bytes", len(data))
	}

	log, err := fossil.ParseTimelineBytes(data, ctx.ParseOptions())
	if err != nil {
		return fmt.Errorf("failed to parse timeline: %w", err)
	}

	report, err := ctx.BuildReport(c, ctx.RepoPath(), oldRev, newRev, log)
	if err != nil {
		return err
	}
	return writeChangeLogReport(c, report)
}
