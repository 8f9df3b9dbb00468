package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/connecthear/opsportal/pkg/loader"
	"github.com/connecthear/opsportal/pkg/watcher"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "build <bible.md>...",
		Short: "Build the directory data file from operations bible markdown",
		Long: `Build parses one or more operations bible markdown files and writes the
combined directory. The output format follows the file extension (.json,
.yaml or .yml). With --watch, the data file is rebuilt whenever a source
file changes.`,
		Example: `
opsportal build bible.md -o ops.json
opsportal build people.md finance.md -o ops.yaml --watch
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()

			build := func(ctx context.Context) error {
				dir, err := loader.BuildAll(ctx, args)
				if err != nil {
					return err
				}
				if err := loader.SaveDirectory(dir, output); err != nil {
					return err
				}
				a.logger.Info("built directory",
					zap.String("output", output),
					zap.Int("sources", len(args)),
					zap.Int("workstreams", dir.Metadata.TotalWorkstreams),
				)
				fmt.Fprintf(out, "Wrote %s: %d departments, %d areas, %d workstreams\n",
					output, dir.Metadata.TotalDepartments, dir.Metadata.TotalAreas, dir.Metadata.TotalWorkstreams)
				return nil
			}

			if err := build(ctx); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			fmt.Fprintf(out, "Watching %d source file(s); press Ctrl+C to stop\n", len(args))
			w := watcher.NewWatcher(args, watcher.WithLogger(a.logger))
			return w.Run(ctx, func() {
				if err := build(ctx); err != nil {
					a.logger.Error("rebuild failed", zap.Error(err))
					fmt.Fprintf(cmd.ErrOrStderr(), "rebuild failed: %v\n", err)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "data.json", "where to write the directory")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when a source file changes")
	return cmd
}
