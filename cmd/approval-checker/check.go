package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qld-approval-checker/internal/ui/console"
)

func (c *cli) newCheckCmd() *cobra.Command {
	var (
		address       string
		structureType string
		format        string
		style         string
		download      bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check approval requirements for one property",
		Long: `Sends the address and structure type to the approval backend and prints
the report. With --download the report is also saved as a PDF in download.dir.

Structure types: shed, patio, carport, granny_flat.`,
		Example: `  approval-checker check --address "12 Smith St, Brisbane" --type shed
  approval-checker check --address "1 George St" --type granny_flat --download`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := console.New(console.Options{
				Out:    cmd.OutOrStdout(),
				Err:    cmd.ErrOrStderr(),
				Format: format,
				Style:  style,
			})
			if err != nil {
				return err
			}
			controller, err := c.newController(view, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := controller.CheckApproval(ctx, address, structureType); err != nil {
				return err
			}
			if !download {
				return nil
			}

			path, err := controller.DownloadReport(ctx, address, structureType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "property address")
	cmd.Flags().StringVarP(&structureType, "type", "t", "", "structure type (shed, patio, carport, granny_flat)")
	cmd.Flags().BoolVarP(&download, "download", "d", false, "save the report as a PDF")
	cmd.Flags().StringVar(&format, "format", console.FormatMarkdown, "report output: markdown or html")
	cmd.Flags().StringVar(&style, "style", "", "glamour style for markdown output (dark, light, notty, ...)")
	return cmd
}
