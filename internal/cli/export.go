package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pricedash/internal/services"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		rng    rangeFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the price history as CSV or XLSX",
		Long: `Export the records of a period with their derived columns.
Without --start and --end the whole history is exported.
The file name defaults to <export_prefix>_<start>_<end>.<format>; use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rng.bounds()
			if err != nil {
				return err
			}

			svc := opts.dashboard()
			var export *services.Export
			switch strings.ToLower(format) {
			case "csv":
				export, err = svc.ExportCSV(cmd.Context(), start, end)
			case "xlsx":
				export, err = svc.ExportXLSX(cmd.Context(), start, end)
			default:
				return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
			}
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(export.Data)
				return err
			}
			if out == "" {
				out = export.Filename
			} else if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
				out = filepath.Join(out, export.Filename)
			}

			if err := os.WriteFile(out, export.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			opts.logger.InfoContext(cmd.Context(), "export written",
				slog.String("file", out),
				slog.Int("bytes", len(export.Data)))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory, - for stdout")

	return cmd
}
