package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"valentine/internal/config"
	"valentine/internal/format"
	"valentine/internal/logging"
	"valentine/internal/store"
	"valentine/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// annotConfigMayNotExist marks commands that run before --config exists.
const annotConfigMayNotExist = "valentine/config-may-not-exist"

type App struct {
	Dir        string
	ConfigFile string
	PrettyJSON bool
	Format     string
	Verbose    bool

	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "valentine",
		Short:        "Searchable dropdowns, a drag/drop board and board export",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI (form of dropdowns + board)
  valentine

  # Pick a value from a configured field
  valentine pick --field country

  # Filter non-interactively
  valentine pick --id size --option s=Small --option m=Medium --query med

  # Direct board lookup (shortcut for: valentine board show <board-id>)
  valentine brd-3f2a9c01de
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfgFile := app.ConfigFile
		if cmd.Annotations[annotConfigMayNotExist] == "true" && cfgFile != "" {
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				cfgFile = ""
			}
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return writeErr(cmd, err)
		}
		if strings.TrimSpace(app.Dir) == "" {
			app.Dir = cfg.Data.Dir
		}
		cfg.Data.Dir = app.Dir
		app.cfg = cfg

		log, err := logging.New(logging.Options{Path: cfg.Log.Path, Verbose: app.Verbose || cfg.Log.Verbose})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log.With(zap.String("cmd", cmd.CommandPath()))
		app.log.Debug("start", zap.String("dir", app.Dir), zap.Strings("args", args))
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			// Sync on a closed or special file is not worth failing the command.
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("VALENTINE_DIR", ""), "Path to the data dir (default: data.dir from config)")
	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("VALENTINE_CONFIG", ""), "Config file (default: config.toml in the config dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("VALENTINE_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug-level logging")

	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newSelectionsCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App, boardID string) error {
	st, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:   st,
		Config:  app.cfg,
		Logger:  app.logger(),
		BoardID: boardID,
	})
}

func openStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		return store.Store{}, errors.New("no data dir; pass --dir or set data.dir in config")
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the shape of every command's output: {"data": ..., "_hints": [...]}.
func envelope(data any, hints ...string) map[string]any {
	out := map[string]any{"data": data}
	if len(hints) > 0 {
		out["_hints"] = hints
	}
	return out
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
