// Package dataprocessing turns a daily price history file into a typed
// series and reduces it to period figures.
//
// # Components
//
//  1. Loader: reads the tab-separated file, renames the French columns
//     (ouv, haut, bas, clot, vol), parses day-first dates, sorts and derives
//     Amount, Variation and VariationPct.
//  2. SeriesCache: keeps one loaded series per file and reloads it only when
//     the file's modification time or size changes.
//  3. Summarize: filters a series to an inclusive date range and computes the
//     KPI figures of the period.
//
// # Usage
//
//	cache := dataprocessing.NewSeriesCache(nil, logger)
//	series, err := cache.Get(ctx, "CARREFOUR_2026-01-16.txt")
//	if errors.Is(err, dataprocessing.ErrNotFound) {
//	    // show the missing file state
//	}
//	r, err := dataprocessing.ResolveRange(series, start, end)
//	period, summary := dataprocessing.Summarize(series, r)
//
// # Error Handling
//
// Load failures are reported as *LoadError and match exactly one of
// ErrNotFound or ErrLoadFailed with errors.Is. A start after the end
// matches domain.ErrInvalidRange.
package dataprocessing
