// Package watcher invalidates in-process caches when the flat catalog
// file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

// defaultDebounce coalesces the burst of events an editor or deploy
// produces for a single catalog swap.
const defaultDebounce = 500 * time.Millisecond

// CatalogWatcher watches the candidate catalog paths and runs a callback
// when any of them is written, created, or replaced. Directories are
// watched rather than the files themselves because most writers replace
// the file, which would silently drop a file-level watch.
type CatalogWatcher struct {
	watcher  *fsnotify.Watcher
	targets  map[string]struct{}
	onChange func()
	logger   logger.Logger
	debounce time.Duration
}

// New creates a CatalogWatcher over the candidate catalog paths. Paths
// whose parent directory does not exist are skipped; at least one
// watchable directory is required.
func New(paths []string, onChange func(), log logger.Logger) (*CatalogWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	targets := make(map[string]struct{}, len(paths))
	watchedDirs := make(map[string]struct{})
	added := 0

	for _, path := range paths {
		absolute, absErr := filepath.Abs(path)
		if absErr != nil {
			continue
		}
		targets[absolute] = struct{}{}

		dir := filepath.Dir(absolute)
		if _, seen := watchedDirs[dir]; seen {
			continue
		}
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			log.Debug("Skipping catalog watch for missing directory",
				logger.String("dir", dir),
			)
			continue
		}
		if addErr := fsWatcher.Add(dir); addErr != nil {
			log.Warn("Failed to watch catalog directory",
				logger.String("dir", dir),
				logger.Error(addErr),
			)
			continue
		}
		watchedDirs[dir] = struct{}{}
		added++
	}

	if added == 0 {
		fsWatcher.Close()
		return nil, fmt.Errorf("no watchable catalog directory among %d candidates", len(paths))
	}

	return &CatalogWatcher{
		watcher:  fsWatcher,
		targets:  targets,
		onChange: onChange,
		logger:   log,
		debounce: defaultDebounce,
	}, nil
}

// Start blocks consuming events until ctx is cancelled, running the
// change callback at most once per debounce window. Run it in its own
// goroutine.
func (w *CatalogWatcher) Start(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isCatalogChange(event) {
				continue
			}
			w.logger.Debug("Catalog change detected",
				logger.String("path", event.Name),
				logger.String("op", event.Op.String()),
			)
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			w.logger.Info("Catalog file changed, invalidating caches")
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Catalog watch error", logger.Error(err))
		}
	}
}

// Close stops the underlying fs watcher.
func (w *CatalogWatcher) Close() error {
	return w.watcher.Close()
}

func (w *CatalogWatcher) isCatalogChange(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	absolute, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, watched := w.targets[absolute]
	return watched
}
