package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildVersion is set with -ldflags "-X main.buildVersion=..." and wins over
// app.version.
var buildVersion string

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := c.cfg.App.Version
			if buildVersion != "" {
				version = buildVersion
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", c.cfg.App.Name, version, c.cfg.App.Environment)
		},
	}
}
