package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// DefaultPattern matches the price history exports.
const DefaultPattern = "*.txt"

// ErrNoPriceFile is returned when a data directory holds no matching file.
var ErrNoPriceFile = errors.New("no price file found")

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time

	// Date is parsed from the file name; zero when the name carries none.
	Date time.Time
}

// Discovery finds price files in data directories.
type Discovery struct {
	pattern string
}

// NewDiscovery creates a discovery matching file names against the glob
// pattern. An empty pattern means DefaultPattern.
func NewDiscovery(pattern string) *Discovery {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Discovery{pattern: pattern}
}

// FindPriceFiles lists the matching files of dir, oldest first.
func (d *Discovery) FindPriceFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ok, _ := filepath.Match(d.pattern, name); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		date, _ := DateFromName(name)
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Date:    date,
		})
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].before(files[j]) })
	return files, nil
}

// Resolve maps a configured data path to the file to load. Files and
// missing paths are returned unchanged so the loader reports them.
func (d *Discovery) Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, nil
	}

	files, err := d.FindPriceFiles(path)
	if err != nil {
		return "", err
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return "", fmt.Errorf("%w in %s matching %s", ErrNoPriceFile, path, d.pattern)
	}
	return latest.Path, nil
}

// GetLatestFile returns the newest file of a list: latest name date first,
// then latest modification time.
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if latest.before(file) {
			latest = file
		}
	}
	return latest, true
}

func (f FileInfo) before(o FileInfo) bool {
	if !f.Date.Equal(o.Date) {
		return f.Date.Before(o.Date)
	}
	return f.ModTime.Before(o.ModTime)
}

var nameDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

// DateFromName extracts the last YYYY-MM-DD date of a file name.
func DateFromName(name string) (time.Time, bool) {
	matches := nameDate.FindAllString(name, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if t, err := time.Parse("2006-01-02", matches[i]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
