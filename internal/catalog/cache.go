package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrCatalogUnavailable means no catalog text could be obtained at all for
// a category. Distinct from a malformed-record skip: this is fatal for the
// run that needed the catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Cache manages fetched catalog text files on disk, one timestamped file
// per fetch per category.
type Cache struct {
	dir      string
	maxFiles int
}

// NewCache creates a Cache that stores files in dir and keeps at most
// maxFiles per category.
func NewCache(dir string, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Cache{dir: dir, maxFiles: maxFiles}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Write saves catalog text to a timestamped file and prunes old files of
// the same category beyond maxFiles.
func (c *Cache) Write(category Category, data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	filename := fmt.Sprintf("catalog_%s_%d.txt", category, ts.Unix())
	if err := os.WriteFile(filepath.Join(c.dir, filename), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return c.prune(category)
}

// LoadLatest reads the newest cached catalog text for a category. Returns
// ErrCatalogUnavailable when no file exists.
func (c *Cache) LoadLatest(category Category) ([]byte, time.Time, error) {
	files, err := c.listFiles(category)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(files) == 0 {
		return nil, time.Time{}, fmt.Errorf("no cached %s catalog in %s: %w", category, c.dir, ErrCatalogUnavailable)
	}

	// Files are sorted oldest first; take the last one.
	latest := files[len(files)-1]
	data, err := os.ReadFile(filepath.Join(c.dir, latest.name))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading cache file: %w", err)
	}

	return data, latest.ts, nil
}

type cacheFile struct {
	name string
	ts   time.Time
}

func (c *Cache) listFiles(category Category) ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	prefix := fmt.Sprintf("catalog_%s_", category)
	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".txt") {
			continue
		}
		tsStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".txt")
		unix, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, cacheFile{name: name, ts: time.Unix(unix, 0)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})

	return files, nil
}

func (c *Cache) prune(category Category) error {
	files, err := c.listFiles(category)
	if err != nil {
		return err
	}
	if len(files) <= c.maxFiles {
		return nil
	}

	for _, f := range files[:len(files)-c.maxFiles] {
		if err := os.Remove(filepath.Join(c.dir, f.name)); err != nil {
			return fmt.Errorf("pruning cache file %s: %w", f.name, err)
		}
	}
	return nil
}
