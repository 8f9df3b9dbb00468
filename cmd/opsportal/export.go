package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connecthear/opsportal/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the directory as a single markdown handbook",
		Long: `Export writes every workstream into one markdown document with a linked
table of contents. Workstream anchors use the same #dept-area-workstream
links as the browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}
			if err := export.WriteHandbook(dir, output); err != nil {
				return err
			}
			_, _, wss := dir.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d workstreams\n", output, wss)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "handbook.md", "where to write the handbook")
	return cmd
}
