package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/rjperrella/jenkins-fossil-adapter/internal/output"
)

func writeChangeLogReport(c *cli.Context, report *output.ChangeLogReport) error {
	opts := OutputOptions(c)
	writer := output.NewChangeLogWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeInfoReport(c *cli.Context, report *output.InfoReport) error {
	opts := OutputOptions(c)
	writer := output.NewInfoWriter(opts.Format)
	return writer.Write(report, opts)
}

func writePollReport(c *cli.Context, report *output.PollReport) error {
	opts := OutputOptions(c)
	writer := output.NewPollWriter(opts.Format)
	return writer.Write(report, opts)
}
