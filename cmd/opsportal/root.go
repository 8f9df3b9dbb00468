package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/connecthear/opsportal/pkg/config"
	"github.com/connecthear/opsportal/pkg/loader"
	"github.com/connecthear/opsportal/pkg/logging"
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/router"
)

// app carries state resolved once per invocation
type app struct {
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "opsportal",
		Short: "Browse and search the operations directory",
		Long: `opsportal is a terminal browser for the operations directory:
departments, their areas, and the workstreams inside them.

Run without a subcommand to open the interactive browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.opsportal.yaml)")
	pf.String("data", "", "path to the directory data file (.json or .yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file")

	browse := newBrowseCmd(a)
	root.Flags().AddFlagSet(browse.Flags())
	root.RunE = browse.RunE

	root.AddCommand(
		browse,
		newSearchCmd(a),
		newResolveCmd(a),
		newTreeCmd(a),
		newBuildCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration and the logger for cmd
func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		config.KeyData:     "data",
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// The browser owns the terminal, so it only logs to a file.
	fallback := "stderr"
	if cmd == cmd.Root() || cmd.Name() == "browse" {
		fallback = ""
	}
	logger, err := logging.New(cfg.Log, fallback)
	if err != nil {
		return err
	}
	a.logger = logger.Named(cmd.Name())

	color.NoColor = !isTerminal(cmd.OutOrStdout())
	return nil
}

// loadDirectory reads the configured data file
func (a *app) loadDirectory() (*model.Directory, error) {
	dir, err := loader.LoadDirectory(a.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded directory",
		zap.String("path", a.cfg.DataPath),
		zap.Int("departments", dir.Metadata.TotalDepartments),
		zap.Int("workstreams", dir.Metadata.TotalWorkstreams),
	)
	return dir, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// normalizeFragment accepts fragments with or without the leading marker
func normalizeFragment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, router.Marker) {
		return s
	}
	return router.Marker + s
}
