// Package watcher reports changes to a fixed set of files. Each file's
// parent directory is watched so that editors which replace files on save
// are still picked up.
package watcher

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when no debounce is configured
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches files for changes
type Watcher struct {
	paths    []string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a new file watcher
func New(paths []string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		paths:    paths,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch calls onChange with the sorted absolute paths of the watched files
// that were written, created, renamed or removed. A burst of changes
// across any of the files, such as a save of the whole dataset, is
// reported once after the debounce window has passed without further
// events. onChange runs on the watching goroutine, so calls never
// overlap. Watch blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)

	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			w.logger.Warn("skipping unresolvable path", zap.String("path", path), zap.Error(err))
			continue
		}

		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := fsw.Add(dir); err != nil {
				w.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
				continue
			}
			watchedDirs[dir] = true
		}

		fileSet[absPath] = true
		w.logger.Info("watching for changes", zap.String("path", absPath))
	}

	if len(fileSet) == 0 {
		return fmt.Errorf("no watchable paths among %d", len(w.paths))
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			pending[absPath] = struct{}{}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.logger.Info("files changed", zap.Strings("paths", changed))
			onChange(changed)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
