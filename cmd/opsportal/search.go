package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/connecthear/opsportal/pkg/router"
	"github.com/connecthear/opsportal/pkg/search"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank workstreams against a query",
		Long: `Search scores every workstream against the query. Names weigh most,
then RACI roles, descriptions, dependency teams, frequency and outputs.`,
		Example: `
opsportal search training
opsportal search "finance officer" --limit 5
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}

			results, active := search.Search(query, dir.Departments)
			if !active {
				return errors.New("query is empty")
			}
			a.logger.Debug("search", zap.String("query", query), zap.Int("results", len(results)))

			out := cmd.OutOrStdout()
			shown := results
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			if len(shown) > 0 {
				bold := color.New(color.Bold).SprintFunc()
				tbl := uitable.New()
				tbl.MaxColWidth = 48
				tbl.Wrap = true
				tbl.AddRow(bold("SCORE"), bold("WORKSTREAM"), bold("LINK"), bold("MATCHED"))
				for _, r := range shown {
					tbl.AddRow(
						r.Score,
						r.Department.Name+" › "+r.Area.Name+" › "+r.Workstream.Name,
						router.EncodePath(r.Path()),
						strings.Join(r.Matched, ", "),
					)
				}
				fmt.Fprintln(out, tbl)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, color.New(color.FgCyan).Sprint(search.Summary(results, query)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many results (0 for all)")
	return cmd
}
