package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"pricedash/internal/dataprocessing"
	"pricedash/pkg/contracts/domain"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV streams series to w: one header row, then one row per record.
func WriteCSV(w io.Writer, series domain.PriceSeries, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(dataprocessing.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range series {
		if err := writer.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeCSV renders series as a UTF-8 comma-separated document.
func EncodeCSV(series domain.PriceSeries) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, series, WriteOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCSV reads an exported document back. Derived columns are recomputed
// from the base columns rather than trusted.
func DecodeCSV(r io.Reader) (domain.PriceSeries, error) {
	series, err := dataprocessing.ParseDelimited(r, ',')
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return series, nil
}

func recordRow(rec domain.PriceRecord) []string {
	return []string{
		rec.Date.Format(domain.DateFormat),
		formatFloat(rec.Open),
		formatFloat(rec.High),
		formatFloat(rec.Low),
		formatFloat(rec.Close),
		formatInt(rec.Volume),
		formatFloat(rec.Amount),
		formatFloat(rec.Variation),
		formatPercent(rec.VariationPct),
	}
}
