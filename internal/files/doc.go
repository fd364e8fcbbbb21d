// Package files locates price history files on disk.
//
// The configured data file may name a single file or a directory of dated
// exports such as CARREFOUR_2026-01-16.txt. For a directory, Discovery picks
// the file with the latest date in its name, falling back to modification
// time, and Provider loads it through the series cache on every request so
// that a newly dropped export is picked up without a restart.
//
// Example usage:
//
//	discovery := files.NewDiscovery("*.txt")
//	provider := files.NewProvider(discovery, cache, logger)
//	series, err := provider.Get(ctx, "data/")
package files
