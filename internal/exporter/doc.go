// Package exporter writes price series to downloadable documents.
//
// Two formats are produced from the same columns
// (date, Open, High, Low, Close, Volume, Amount, Variation, VariationPct):
//
// CSV: UTF-8, comma separated, ISO dates, numbers in their shortest
// round-trip form. Undefined percentages are empty cells.
//
// XLSX: one "Prices" sheet with a bold header row and numeric cells.
//
// Both can be decoded back into a series; derived columns are recomputed on
// decode so a round trip yields an equal series.
//
// Example usage:
//
//	data, err := exporter.EncodeCSV(period)
//	name := exporter.Filename("export_carrefour", "csv", &r)
package exporter
