package catalog

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the catalog store when a new catalog file lands in the
// cache directory. This lets a one-shot fetch run feed a running server
// without coordination between the two processes.
type Watcher struct {
	cache  *Cache
	store  *Store
	limit  int
	logger *slog.Logger
}

// NewWatcher creates a Watcher over the given cache directory.
func NewWatcher(cache *Cache, store *Store, limit int, logger *slog.Logger) *Watcher {
	return &Watcher{cache: cache, store: store, limit: limit, logger: logger}
}

// Run watches the cache directory until ctx is cancelled. Writes are
// debounced so a file being streamed to disk triggers a single reload.
func (w *Watcher) Run(ctx context.Context) error {
	// The cache directory may not exist until the first fetch.
	if err := os.MkdirAll(w.cache.Dir(), 0755); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.cache.Dir()); err != nil {
		return err
	}

	const debounce = 2 * time.Second
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.Contains(event.Name, "catalog_") || !strings.HasSuffix(event.Name, ".txt") {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if _, err := w.store.Reload(w.cache, w.limit, w.logger); err != nil {
				w.logger.Warn("catalog reload after cache change failed", "error", err)
			} else {
				w.logger.Info("catalog snapshot reloaded after cache change")
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", "error", err)
		}
	}
}
