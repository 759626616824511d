package cli

import (
	"path/filepath"
	"strings"

	"valentine/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(app *App) *cobra.Command {
	var as string
	var out string
	var stdout bool
	var autoPrint bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export <board-id>",
		Short: "Export a board as Markdown, HTML or PDF",
		Example: strings.TrimSpace(`
  valentine export brd-3f2a9c01de --format pdf --auto-print
  valentine export brd-3f2a9c01de --format md --stdout
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := loadBoardArg(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := export.WriteOptions{Overwrite: overwrite, AutoPrint: autoPrint}

			if stdout {
				data, err := export.Render(b, f, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := strings.TrimSpace(out)
			if path == "" {
				path = filepath.Join(app.Dir, "exports", export.FileName(b, f))
			}
			res, err := export.Write(b, f, path, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("exported board", zap.String("board", b.ID), zap.String("format", string(f)), zap.Strings("written", res.Written))
			return writeOut(cmd, app, envelope(res))
		},
	}

	// Shadows the global --format: the export format, not the output encoding.
	cmd.Flags().StringVar(&as, "format", "md", "Export format (md|html|pdf)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: <dir>/exports/<board-id>.<ext>)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the export to stdout instead of a file")
	cmd.Flags().BoolVar(&autoPrint, "auto-print", false, "PDF only: open the print dialog when the file is opened")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}
