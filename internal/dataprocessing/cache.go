package dataprocessing

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pricedash/pkg/contracts/domain"
)

// CacheObserver receives cache events. Implementations must be safe for
// concurrent use.
type CacheObserver interface {
	CacheHit(ctx context.Context, path string)
	CacheMiss(ctx context.Context, path string)
	LoadCompleted(ctx context.Context, path string, elapsed time.Duration, err error)
}

// signature identifies one version of a file on disk.
type signature struct {
	modTime time.Time
	size    int64
}

type cacheEntry struct {
	sig      signature
	series   domain.PriceSeries
	loadedAt time.Time
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// SeriesCache memoizes loaded series per file. An entry stays valid while
// the file's modification time and size are unchanged.
type SeriesCache struct {
	loader   *Loader
	source   Source
	observer CacheObserver
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
	hits    int64
	misses  int64

	group singleflight.Group
}

// CacheOption configures a SeriesCache.
type CacheOption func(*SeriesCache)

// WithObserver reports hits, misses and load timings to o.
func WithObserver(o CacheObserver) CacheOption {
	return func(c *SeriesCache) { c.observer = o }
}

// NewSeriesCache creates a cache that reads through source. A nil source
// reads the local file system.
func NewSeriesCache(source Source, logger *slog.Logger, opts ...CacheOption) *SeriesCache {
	if source == nil {
		source = OSSource{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &SeriesCache{
		loader:   NewLoader(source, logger),
		source:   source,
		observer: nopObserver{},
		logger:   logger.With(slog.String("component", "series_cache")),
		entries:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the series for path, loading it when the file is new or has
// changed since the last load. Failed loads are not cached.
func (c *SeriesCache) Get(ctx context.Context, path string) (domain.PriceSeries, error) {
	key := cacheKey(path)

	info, err := c.source.Stat(key)
	if err != nil {
		c.Invalidate(key)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, ErrNotFound, nil)
		}
		return nil, newLoadError(path, ErrLoadFailed, err)
	}
	if info.IsDir() {
		return nil, newLoadError(path, ErrLoadFailed, errors.New("is a directory"))
	}
	sig := signature{modTime: info.ModTime(), size: info.Size()}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.sig == sig {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.observer.CacheHit(ctx, key)
		return entry.series, nil
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	c.observer.CacheMiss(ctx, key)

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && entry.sig == sig {
			return entry.series, nil
		}

		start := time.Now()
		series, err := c.loader.Load(ctx, key)
		c.observer.LoadCompleted(ctx, key, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{sig: sig, series: series, loadedAt: time.Now()}
		c.mu.Unlock()

		c.logger.InfoContext(ctx, "series loaded",
			slog.String("path", key),
			slog.Int("records", series.Len()),
			slog.Duration("elapsed", time.Since(start)))
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "series load shared", slog.String("path", key))
	}
	return v.(domain.PriceSeries), nil
}

// Invalidate drops the entry for path.
func (c *SeriesCache) Invalidate(path string) {
	key := cacheKey(path)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Stats returns the current counters.
func (c *SeriesCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

type nopObserver struct{}

func (nopObserver) CacheHit(context.Context, string)                             {}
func (nopObserver) CacheMiss(context.Context, string)                            {}
func (nopObserver) LoadCompleted(context.Context, string, time.Duration, error) {}
