package exporter

import (
	"strconv"
	"strings"

	"pricedash/pkg/contracts/domain"
)

// formatFloat uses the shortest representation that parses back to f.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatPercent leaves undefined percentages as an empty cell.
func formatPercent(p domain.Percent) string {
	if !p.Defined() {
		return ""
	}
	return formatFloat(float64(p))
}

// Filename names an export file, e.g. "export_carrefour.csv" for the full
// history or "export_carrefour_2026-01-01_2026-01-16.csv" for a period.
func Filename(prefix, ext string, r *domain.DateRange) string {
	if prefix == "" {
		prefix = "export"
	}
	ext = strings.TrimPrefix(ext, ".")

	var b strings.Builder
	b.WriteString(prefix)
	if r != nil {
		b.WriteString("_")
		b.WriteString(r.From.Format(domain.DateFormat))
		b.WriteString("_")
		b.WriteString(r.To.Format(domain.DateFormat))
	}
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}
