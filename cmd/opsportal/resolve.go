package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/connecthear/opsportal/pkg/nav"
	"github.com/connecthear/opsportal/pkg/router"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <fragment>",
		Short: "Show which workstream a link points to",
		Long: `Resolve decodes a #dept-area-workstream link the same way the browser
does. Links that match nothing resolve to Home, with suggestions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}
			fragment := normalizeFragment(args[0])
			out := cmd.OutOrStdout()

			p, ok := router.Decode(fragment, dir.Departments)
			if !ok {
				fmt.Fprintln(out, nav.HomeLabel)
				fmt.Fprintf(out, "No workstream matches %s\n", fragment)
				if suggestions := router.Suggest(fragment, dir.Departments, 5); len(suggestions) > 0 {
					fmt.Fprintln(out, "\nDid you mean:")
					for _, s := range suggestions {
						fmt.Fprintf(out, "  %s\n", s)
					}
				}
				return nil
			}

			dept, area, ws, _ := dir.Lookup(p)
			crumbs := nav.Breadcrumbs(dept, area, ws)
			labels := make([]string, len(crumbs))
			for i, c := range crumbs {
				labels[i] = c.Label
			}
			fmt.Fprintln(out, color.New(color.Bold).Sprint(strings.Join(labels, " › ")))
			fmt.Fprintf(out, "department: %s\narea:       %s\nworkstream: %s\n", p.DeptID, p.AreaID, p.WorkstreamID)

			for _, c := range router.Collisions(dir.Departments) {
				if c.Key != p.Key() {
					continue
				}
				warn := color.New(color.FgYellow).SprintFunc()
				fmt.Fprintln(out, warn(fmt.Sprintf("warning: %s is shared by %d workstreams; the first is shown", fragment, len(c.Paths))))
			}
			return nil
		},
	}
}
