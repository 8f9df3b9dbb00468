package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/connecthear/opsportal/pkg/nav"
	"github.com/connecthear/opsportal/pkg/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var open string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive directory browser",
		Example: `
opsportal --data ops.json
opsportal browse --open '#people-ops-onboarding-staff-training'
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.loadDirectory()
			if err != nil {
				return err
			}
			ctrl, err := nav.NewController(dir, a.logger)
			if err != nil {
				return err
			}

			// colors follow the stream the program draws on, not os.Stdout
			out := cmd.OutOrStdout()
			m := ui.NewModel(ctrl,
				ui.WithTheme(ui.DefaultTheme(lipgloss.NewRenderer(out))),
				ui.WithDebounce(a.cfg.Search.Debounce),
				ui.WithLogger(a.logger),
				ui.WithInitialFragment(normalizeFragment(open)),
			)

			opts := []tea.ProgramOption{tea.WithOutput(out)}
			if a.cfg.UI.AltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&open, "open", "", "start at this workstream link (#dept-area-workstream)")
	return cmd
}
