package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher triggers a refresh when a local metrics file changes. Rapid saves
// are coalesced into one trigger.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	trigger  func(context.Context) bool
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher watches the directory holding path, so editors that replace the
// file by rename are still seen.
func NewWatcher(path string, trigger func(context.Context) bool, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		trigger:  trigger,
		debounce: defaultDebounce,
		logger:   logger,
	}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := time.NewTicker(w.debounce / 5)
	defer tick.Stop()

	var pending time.Time
	w.logger.Info("watching metrics file", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("metrics file changed", zap.String("op", event.Op.String()))
			pending = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-tick.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			if !w.trigger(ctx) {
				// A cycle is in flight and may have read the old file; retry.
				w.logger.Debug("file change refresh suppressed, retrying")
				continue
			}
			pending = time.Time{}
		}
	}
}
