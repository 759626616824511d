package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSelectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selections",
		Short: "Recorded dropdown commits",
	}

	var id string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded selections (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sels, err := st.ListSelections(cmd.Context(), strings.TrimSpace(id), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(sels))
		},
	}
	listCmd.Flags().StringVar(&id, "id", "", "Only this container id")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of selections (0 = all)")

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest value per container id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			latest, err := st.LatestSelections(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(latest))
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(latestCmd)
	return cmd
}
