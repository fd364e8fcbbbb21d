package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"pricedash/internal/services"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var (
		rng    rangeFlags
		output string
		style  string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPIs of a period",
		Long: `Print the dashboard cards and the latest transactions of a period.
Output is rendered markdown by default, raw markdown with --output markdown
or the period summary as JSON with --output json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := rng.bounds()
			if err != nil {
				return err
			}

			svc := opts.dashboard()
			w := cmd.OutOrStdout()

			switch output {
			case "json":
				p, err := svc.Period(cmd.Context(), start, end)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(p.Summary)
			case "markdown", "terminal":
			default:
				return fmt.Errorf("unknown output %q (want terminal, markdown or json)", output)
			}

			view, err := svc.View(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			md := summaryMarkdown(view)
			if output == "markdown" {
				_, err = io.WriteString(w, md)
				return err
			}
			return renderMarkdown(w, md, style)
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVar(&output, "output", "terminal", "terminal, markdown or json")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")

	return cmd
}

func renderMarkdown(w io.Writer, md, style string) error {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func summaryMarkdown(v *services.DashboardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Title)
	fmt.Fprintf(&b, "Période %s\n\n", v.PeriodLabel)

	if v.Empty {
		b.WriteString("_Aucune transaction sur cette période._\n")
		return b.String()
	}

	b.WriteString("| Indicateur | Valeur | |\n|---|---:|---|\n")
	for _, c := range v.Cards {
		fmt.Fprintf(&b, "| %s | %s | %s %s |\n", c.Title, c.Value, c.Arrow(), c.Delta)
	}

	b.WriteString("\n## Dernières transactions\n\n")
	b.WriteString("| Date | Clôture | Variation | Volume |\n|---|---:|---:|---:|\n")
	for _, r := range v.Recent {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Date, r.Close, r.Variation, r.Volume)
	}
	return b.String()
}
