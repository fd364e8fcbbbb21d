package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
)

// DisplayDateFormat is the day-first layout used on the page.
const DisplayDateFormat = "02/01/2006"

// priceFormat renders amounts of one currency. KPI cards put a space before
// the symbol, table cells do not. Prices carry no thousands separator.
type priceFormat struct {
	code     string
	symbol   string
	spaced   *money.Formatter
	compact  *money.Formatter
	fraction int
}

func newPriceFormat(code string) *priceFormat {
	code = strings.ToUpper(code)
	symbol, fraction := code, 2
	if c := money.GetCurrency(code); c != nil {
		symbol, fraction = c.Grapheme, c.Fraction
	}
	return &priceFormat{
		code:     code,
		symbol:   symbol,
		spaced:   money.NewFormatter(fraction, ".", "", symbol, "1 $"),
		compact:  money.NewFormatter(fraction, ".", "", symbol, "1$"),
		fraction: fraction,
	}
}

// minor converts v to minor units, rounding half away from zero.
func (f *priceFormat) minor(v float64) int64 {
	return int64(math.Round(v * math.Pow10(f.fraction)))
}

// format renders |v| and takes the sign from v itself, so a move that
// rounds to zero keeps its direction: -0.004 is "-0.00".
func (f *priceFormat) format(fm *money.Formatter, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	s := fm.Format(f.minor(math.Abs(v)))
	if math.Signbit(v) {
		return "-" + s
	}
	return s
}

// Card formats a KPI value, e.g. "12.34 €".
func (f *priceFormat) Card(v float64) string {
	return f.format(f.spaced, v)
}

// Cell formats a table price, e.g. "12.34€".
func (f *priceFormat) Cell(v float64) string {
	return f.format(f.compact, v)
}

// SignedCell formats a table move with an explicit sign, e.g. "+0.50€".
func (f *priceFormat) SignedCell(v float64) string {
	s := f.Cell(v)
	if s == "n/a" || math.Signbit(v) {
		return s
	}
	return "+" + s
}

// Millions formats a capital flow, e.g. "12.3 M€".
func (f *priceFormat) Millions(v float64) string {
	return fmt.Sprintf("%.1f M%s", v/1e6, f.symbol)
}

// formatVolume adds thousands separators, e.g. "1,234".
func formatVolume(v int64) string {
	return humanize.Comma(v)
}
