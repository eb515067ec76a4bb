package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// VersionCheckCmd returns the version-check command.
func VersionCheckCmd() *cli.Command {
	return &cli.Command{
		Name:   "version-check",
		Usage:  "Print the version of the fossil client",
		Flags:  fossilFlags(),
		Action: versionCheckAction,
	}
}

func versionCheckAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	info, err := ctx.Client.Version(c.Context)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Fprintf(c.App.Writer, "%s ", ctx.Client.Executable())
	fmt.Fprintf(c.App.Writer, "version %s [%s] %s\n", info.Version, info.Checkin, info.Date)
	return nil
}
