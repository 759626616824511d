package cli

import (
	"errors"
	"os"
	"strings"

	"valentine/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the config file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file, env and defaults merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, envelope(app.cfg))
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the effective config to the config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotConfigMayNotExist: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(app.ConfigFile)
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = p
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return writeErr(cmd, errors.New("config exists (use --force): "+path))
				}
			}
			if err := config.Save(path, app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(map[string]any{"path": path}))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(showCmd)
	cmd.AddCommand(initCmd)
	return cmd
}
