package exporter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pricedash/internal/dataprocessing"
	"pricedash/pkg/contracts/domain"
)

// SheetName is the worksheet holding exported prices.
const SheetName = "Prices"

// EncodeXLSX renders series as a single-sheet workbook with the same columns
// as the CSV export. Numbers are stored as numeric cells.
func EncodeXLSX(series domain.PriceSeries) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(dataprocessing.Columns))
	for i, col := range dataprocessing.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style headers: %w", err)
	}

	for i, rec := range series {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			rec.Date.Format(domain.DateFormat),
			rec.Open,
			rec.High,
			rec.Low,
			rec.Close,
			rec.Volume,
			rec.Amount,
			rec.Variation,
			nil,
		}
		if rec.VariationPct.Defined() {
			row[8] = float64(rec.VariationPct)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeXLSX reads a workbook written by EncodeXLSX.
func DecodeXLSX(r io.Reader) (domain.PriceSeries, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", SheetName, err)
	}
	series, err := dataprocessing.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("decode xlsx: %w", err)
	}
	return series, nil
}

// WriteXLSX writes the workbook of EncodeXLSX to w.
func WriteXLSX(w io.Writer, series domain.PriceSeries) error {
	b, err := EncodeXLSX(series)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(b))
	return err
}
