package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/connecthear/opsportal/pkg/router"
)

func newValidateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the directory for id problems and ambiguous links",
		Long: `Validate loads the data file, which rejects empty and duplicate ids, then
reports links that more than one workstream shares. Such links always open
the first workstream in tree order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warn := color.New(color.FgYellow).SprintFunc()

			collisions := router.Collisions(dir.Departments)
			for _, c := range collisions {
				paths := make([]string, len(c.Paths))
				for i, p := range c.Paths {
					paths[i] = p.DeptID + " / " + p.AreaID + " / " + p.WorkstreamID
				}
				fmt.Fprintf(out, "%s %s is shared by: %s\n", warn("ambiguous link"), router.Marker+c.Key, strings.Join(paths, "; "))
			}

			depts, areas, wss := dir.Counts()
			if len(collisions) > 0 && strict {
				return fmt.Errorf("%d ambiguous link(s)", len(collisions))
			}
			fmt.Fprintf(out, "%s %d departments, %d areas, %d workstreams\n",
				color.New(color.FgGreen).Sprint("OK"), depts, areas, wss)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat ambiguous links as errors")
	return cmd
}
