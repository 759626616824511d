package cli

import (
	"errors"
	"fmt"
	"strings"

	"valentine/internal/model"
	"valentine/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// parseColumn parses "type=Label"; a bare "type" uses the type as its label.
func parseColumn(s string) (model.Column, error) {
	typ, label, _ := strings.Cut(strings.TrimSpace(s), "=")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return model.Column{}, fmt.Errorf("column %q: missing type", s)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = typ
	}
	return model.Column{Type: typ, Label: label}, nil
}

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"boards"},
		Short:   "Boards, cards and column order",
	}

	var title string
	var columns []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		Example: strings.TrimSpace(`
  valentine board create --title "Sprint 12"
  valentine board create --title Triage --column new=New --column triaged=Triaged --column closed=Closed
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := app.cfg.Board.DefaultColumns
			if len(columns) > 0 {
				cols = nil
				for _, s := range columns {
					c, err := parseColumn(s)
					if err != nil {
						return writeErr(cmd, err)
					}
					cols = append(cols, c)
				}
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := st.CreateBoard(cmd.Context(), title, cols)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("board created", zap.String("board", b.ID))
			return writeOut(cmd, app, envelope(b,
				"valentine board add-card "+b.ID+" --column "+b.Columns[0].Type+" --title <title>",
				"valentine board tui "+b.ID,
			))
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Board title")
	createCmd.Flags().StringArrayVar(&columns, "column", nil, "Column as type=Label (repeatable; default: board.default_columns)")
	_ = createCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List boards (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boards, err := st.ListBoards(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(boards))
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its columns and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBoardArg(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(b))
		},
	}

	var cardColumn, cardTitle string
	addCardCmd := &cobra.Command{
		Use:   "add-card <board-id>",
		Short: "Add a card to the end of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(cardTitle) == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			col := strings.TrimSpace(cardColumn)
			if col == "" {
				b, err := st.LoadBoard(cmd.Context(), args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				if len(b.Columns) == 0 {
					return writeErr(cmd, errors.New("board has no columns"))
				}
				col = b.Columns[0].Type
			}
			c, err := st.AddCard(cmd.Context(), args[0], col, cardTitle)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(c, "valentine board move "+args[0]+" "+c.ID+" <column>"))
		},
	}
	addCardCmd.Flags().StringVar(&cardColumn, "column", "", "Column type (default: first column)")
	addCardCmd.Flags().StringVar(&cardTitle, "title", "", "Card title")

	moveCmd := &cobra.Command{
		Use:   "move <board-id> <card-id> <column>",
		Short: "Move a card to the end of another column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.MoveCard(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("card moved", zap.String("board", args[0]), zap.String("card", args[1]), zap.String("column", args[2]))
			b, err := st.LoadBoard(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(b))
		},
	}

	reorderCmd := &cobra.Command{
		Use:   "reorder <board-id> <column>...",
		Short: "Set the column order (every column, in the new order)",
		Example: strings.TrimSpace(`
  valentine board reorder brd-3f2a9c01de doing todo done
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.ReorderColumns(cmd.Context(), args[0], args[1:]); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("columns reordered", zap.String("board", args[0]), zap.Strings("order", args[1:]))
			b, err := st.LoadBoard(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(b))
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [board-id]",
		Short: "Open the interactive board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runTUI(cmd, app, id)
		},
	}

	cmd.AddCommand(createCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(addCardCmd)
	cmd.AddCommand(moveCmd)
	cmd.AddCommand(reorderCmd)
	cmd.AddCommand(tuiCmd)
	return cmd
}

func loadBoardArg(cmd *cobra.Command, app *App, id string) (model.Board, error) {
	st, err := openStore(app)
	if err != nil {
		return model.Board{}, err
	}
	b, err := st.LoadBoard(cmd.Context(), strings.TrimSpace(id))
	if err != nil {
		if isNotFound(err) && !store.IsBoardID(id) {
			return model.Board{}, fmt.Errorf("%w (board ids look like brd-xxxxxxxxxx; see `valentine board list`)", err)
		}
		return model.Board{}, err
	}
	return b, nil
}
