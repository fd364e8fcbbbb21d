package dataprocessing

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps the local file system and counts opens.
type countingSource struct {
	path  string
	mu    sync.Mutex
	count int
	delay time.Duration
}

func newCountingSource(t *testing.T, content string) *countingSource {
	return &countingSource{path: writeFixture(t, content)}
}

func (s *countingSource) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (s *countingSource) Open(path string) (io.ReadCloser, error) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return os.Open(path)
}

func (s *countingSource) opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

type recordingObserver struct {
	hits, misses, loads atomic.Int64
	failed              atomic.Int64
}

func (o *recordingObserver) CacheHit(context.Context, string)  { o.hits.Add(1) }
func (o *recordingObserver) CacheMiss(context.Context, string) { o.misses.Add(1) }
func (o *recordingObserver) LoadCompleted(_ context.Context, _ string, _ time.Duration, err error) {
	o.loads.Add(1)
	if err != nil {
		o.failed.Add(1)
	}
}

func TestSeriesCache_HitDoesNoIO(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	obs := &recordingObserver{}
	cache := NewSeriesCache(src, nil, WithObserver(obs))
	ctx := context.Background()

	first, err := cache.Get(ctx, src.path)
	require.NoError(t, err)
	second, err := cache.Get(ctx, src.path)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, src.opens())

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)

	assert.Equal(t, int64(1), obs.hits.Load())
	assert.Equal(t, int64(1), obs.misses.Load())
	assert.Equal(t, int64(1), obs.loads.Load())
}

func TestSeriesCache_ReloadsChangedFile(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	cache := NewSeriesCache(src, nil)
	ctx := context.Background()

	series, err := cache.Get(ctx, src.path)
	require.NoError(t, err)
	require.Len(t, series, 2)

	updated := sampleTSV + "16/01/2026\t9\t10\t8.5\t9.5\t300\n"
	require.NoError(t, os.WriteFile(src.path, []byte(updated), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(src.path, later, later))

	series, err = cache.Get(ctx, src.path)
	require.NoError(t, err)
	assert.Len(t, series, 3)
	assert.Equal(t, 2, src.opens())
}

func TestSeriesCache_RelativeAndAbsoluteShareEntry(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	cache := NewSeriesCache(src, nil)
	ctx := context.Background()

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, src.path)
	require.NoError(t, err)

	_, err = cache.Get(ctx, src.path)
	require.NoError(t, err)
	_, err = cache.Get(ctx, rel)
	require.NoError(t, err)

	assert.Equal(t, 1, src.opens())
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestSeriesCache_FailuresNotCached(t *testing.T) {
	src := newCountingSource(t, "date\touv\n")
	obs := &recordingObserver{}
	cache := NewSeriesCache(src, nil, WithObserver(obs))
	ctx := context.Background()

	_, err := cache.Get(ctx, src.path)
	assert.ErrorIs(t, err, ErrLoadFailed)
	_, err = cache.Get(ctx, src.path)
	assert.ErrorIs(t, err, ErrLoadFailed)

	assert.Equal(t, 2, src.opens())
	assert.Equal(t, 0, cache.Stats().Entries)
	assert.Equal(t, int64(2), obs.failed.Load())
}

func TestSeriesCache_MissingFileEvicts(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	cache := NewSeriesCache(src, nil)
	ctx := context.Background()

	_, err := cache.Get(ctx, src.path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(src.path))

	series, err := cache.Get(ctx, src.path)
	assert.Nil(t, series)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestSeriesCache_ConcurrentMissesLoadOnce(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	src.delay = 50 * time.Millisecond
	cache := NewSeriesCache(src, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			series, err := cache.Get(ctx, src.path)
			assert.NoError(t, err)
			assert.Len(t, series, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, src.opens())
}

func TestSeriesCache_Invalidate(t *testing.T) {
	src := newCountingSource(t, sampleTSV)
	cache := NewSeriesCache(src, nil)
	ctx := context.Background()

	_, err := cache.Get(ctx, src.path)
	require.NoError(t, err)
	cache.Invalidate(src.path)
	_, err = cache.Get(ctx, src.path)
	require.NoError(t, err)

	assert.Equal(t, 2, src.opens())
}
