package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("date\touv\thaut\tbas\tclot\tvol\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestDateFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"CARREFOUR_2026-01-16.txt", "2026-01-16", true},
		{"export_2026-01-01_2026-01-16.txt", "2026-01-16", true},
		{"CARREFOUR_2026-13-40.txt", "", false},
		{"prices.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateFromName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestDiscovery_FindPriceFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, dir, "CARREFOUR_2026-01-16.txt", now.Add(-time.Hour))
	touch(t, dir, "CARREFOUR_2026-01-09.txt", now)
	touch(t, dir, "notes.md", now)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.txt"), 0o755))

	files, err := NewDiscovery("").FindPriceFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "CARREFOUR_2026-01-09.txt", files[0].Name)
	assert.Equal(t, "CARREFOUR_2026-01-16.txt", files[1].Name)

	_, err = NewDiscovery("").FindPriceFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDiscovery_Resolve(t *testing.T) {
	now := time.Now()

	t.Run("file is returned as is", func(t *testing.T) {
		path := touch(t, t.TempDir(), "prices.txt", now)
		got, err := NewDiscovery("").Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("missing path is returned as is", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gone.txt")
		got, err := NewDiscovery("").Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory picks latest name date", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "CARREFOUR_2026-01-09.txt", now)
		want := touch(t, dir, "CARREFOUR_2026-01-16.txt", now.Add(-24*time.Hour))

		got, err := NewDiscovery("").Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("undated names fall back to modification time", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "a.tsv", now.Add(-time.Hour))
		want := touch(t, dir, "b.tsv", now)

		got, err := NewDiscovery("*.tsv").Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewDiscovery("").Resolve(t.TempDir())
		assert.ErrorIs(t, err, ErrNoPriceFile)
	})
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	day := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "dated", Date: day},
		{Name: "undated", ModTime: time.Now()},
	})
	require.True(t, ok)
	assert.Equal(t, "dated", latest.Name)
}
