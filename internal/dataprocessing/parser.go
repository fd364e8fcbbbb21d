package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pricedash/pkg/contracts/domain"
)

// Canonical column names, in export order.
const (
	ColDate         = "date"
	ColOpen         = "Open"
	ColHigh         = "High"
	ColLow          = "Low"
	ColClose        = "Close"
	ColVolume       = "Volume"
	ColAmount       = "Amount"
	ColVariation    = "Variation"
	ColVariationPct = "VariationPct"
)

// Columns lists the canonical header of an exported series.
var Columns = []string{ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColAmount, ColVariation, ColVariationPct}

// columnAliases maps lower-cased source headers to canonical names. The
// canonical names themselves are accepted so exports can be read back.
var columnAliases = map[string]string{
	"date":   ColDate,
	"ouv":    ColOpen,
	"haut":   ColHigh,
	"bas":    ColLow,
	"clot":   ColClose,
	"vol":    ColVolume,
	"open":   ColOpen,
	"high":   ColHigh,
	"low":    ColLow,
	"close":  ColClose,
	"volume": ColVolume,
}

var requiredColumns = []string{ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// dayFirstLayouts are tried in order. Single-digit layout elements also
// accept two digits, so "2/1/2006" covers "16/01/2026".
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-1-2",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

// ParseDate parses a day-first calendar date such as "16/01/2026".
// ISO dates ("2026-01-16") are accepted as well.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want day-first format like 16/01/2026", s)
}

// Source abstracts the file system reads of the loader.
type Source interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
}

// OSSource reads from the local file system.
type OSSource struct{}

func (OSSource) Stat(path string) (fs.FileInfo, error)   { return os.Stat(path) }
func (OSSource) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// Loader reads price history files into a PriceSeries.
type Loader struct {
	source Source
	logger *slog.Logger
}

// NewLoader creates a loader. A nil source reads the local file system.
func NewLoader(source Source, logger *slog.Logger) *Loader {
	if source == nil {
		source = OSSource{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source: source,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// Load reads a tab-separated price file from the local file system.
func Load(path string) (domain.PriceSeries, error) {
	return NewLoader(nil, nil).Load(context.Background(), path)
}

// Load reads and transforms the file at path. A missing file yields
// ErrNotFound; every other failure collapses into ErrLoadFailed.
func (l *Loader) Load(ctx context.Context, path string) (domain.PriceSeries, error) {
	f, err := l.source.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, ErrNotFound, nil)
		}
		return nil, newLoadError(path, ErrLoadFailed, err)
	}
	defer f.Close()

	series, err := ParseDelimited(f, '\t')
	if err != nil {
		l.logger.WarnContext(ctx, "price file rejected",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, newLoadError(path, ErrLoadFailed, err)
	}

	l.logger.DebugContext(ctx, "price file loaded",
		slog.String("path", path),
		slog.Int("records", series.Len()))
	return series, nil
}

// ParseDelimited reads a header row followed by one row per trading day,
// renames the columns, parses dates day-first, sorts by date and computes
// the derived columns. Extra columns are ignored.
func ParseDelimited(r io.Reader, comma rune) (domain.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	table, err := newTable(header)
	if err != nil {
		return nil, err
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if err := table.add(row); err != nil {
			return nil, err
		}
	}
	return table.series()
}

// ParseRows is ParseDelimited for rows that are already split, such as the
// cells of a spreadsheet. rows[0] is the header.
func ParseRows(rows [][]string) (domain.PriceSeries, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	table, err := newTable(rows[0])
	if err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		if err := table.add(row); err != nil {
			return nil, err
		}
	}
	return table.series()
}

type table struct {
	index   map[string]int
	width   int
	line    int
	records domain.PriceSeries
}

func newTable(header []string) (*table, error) {
	if !validUTF8(header) {
		return nil, fmt.Errorf("invalid UTF-8 on line 1")
	}
	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}
	return &table{index: index, width: len(header), line: 1}, nil
}

func (t *table) add(row []string) error {
	t.line++
	if !validUTF8(row) {
		return fmt.Errorf("invalid UTF-8 on line %d", t.line)
	}
	if len(row) < t.width {
		row = append(row, make([]string, t.width-len(row))...)
	}
	rec, err := parseRow(row, t.index)
	if err != nil {
		return fmt.Errorf("line %d: %w", t.line, err)
	}
	t.records = append(t.records, rec)
	return nil
}

// validUTF8 checks every cell, including columns that are otherwise ignored.
func validUTF8(cells []string) bool {
	for _, c := range cells {
		if !utf8.ValidString(c) {
			return false
		}
	}
	return true
}

func (t *table) series() (domain.PriceSeries, error) {
	series := t.records
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	for i := 1; i < len(series); i++ {
		if series[i].Date.Equal(series[i-1].Date) {
			return nil, fmt.Errorf("duplicate date %s", series[i].Date.Format(domain.DateFormat))
		}
	}
	return series, nil
}

// mapColumns trims and renames the header and returns the position of each
// required canonical column.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		canonical, ok := columnAliases[strings.ToLower(name)]
		if !ok {
			continue
		}
		if _, dup := index[canonical]; dup {
			return nil, fmt.Errorf("column %q appears twice", canonical)
		}
		index[canonical] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (domain.PriceRecord, error) {
	date, err := ParseDate(row[index[ColDate]])
	if err != nil {
		return domain.PriceRecord{}, err
	}

	var prices [4]float64
	for i, col := range []string{ColOpen, ColHigh, ColLow, ColClose} {
		v, err := parsePrice(row[index[col]])
		if err != nil {
			return domain.PriceRecord{}, fmt.Errorf("%s: %w", col, err)
		}
		prices[i] = v
	}

	volume, err := parseVolume(row[index[ColVolume]])
	if err != nil {
		return domain.PriceRecord{}, fmt.Errorf("%s: %w", ColVolume, err)
	}

	return domain.NewPriceRecord(date, prices[0], prices[1], prices[2], prices[3], volume), nil
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// parseVolume accepts non-negative integers and integral decimals ("1200.0").
func parseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("volume %q is negative", s)
		}
		return v, nil
	}
	f, err := parsePrice(s)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("volume %q is negative", s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("volume %q is not a whole number", s)
	}
	return int64(f), nil
}
