package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/connecthear/opsportal/pkg/router"
)

func newTreeCmd(a *app) *cobra.Command {
	var links bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the department, area and workstream hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			deptName := color.New(color.Bold, color.FgMagenta).SprintFunc()
			badge := color.New(color.Faint).SprintFunc()

			for _, dept := range dir.Departments {
				fmt.Fprintf(out, "%s%s\n", prefix(dept.Emoji), deptName(dept.Name))
				for _, area := range dept.Areas {
					fmt.Fprintf(out, "  %s%s %s\n", prefix(area.Emoji), area.Name, badge(fmt.Sprintf("(%d)", len(area.Workstreams))))
					for _, ws := range area.Workstreams {
						line := "    • " + ws.Name
						if links {
							line += "  " + badge(router.Encode(dept.ID, area.ID, ws.ID))
						}
						fmt.Fprintln(out, line)
					}
				}
			}

			depts, areas, wss := dir.Counts()
			fmt.Fprintf(out, "\n%d departments, %d areas, %d workstreams\n", depts, areas, wss)
			return nil
		},
	}
	cmd.Flags().BoolVar(&links, "links", false, "show the link of each workstream")
	return cmd
}

func prefix(emoji string) string {
	if emoji == "" {
		return ""
	}
	return emoji + " "
}
