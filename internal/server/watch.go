package server

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Vikram2Agrawal/notion-sync/internal/syncer"
)

// DocumentCallback is called when an output document changes on disk.
type DocumentCallback func(document string)

// Watch starts an fsnotify watcher on the cache directory and reports output
// document changes until ctx is cancelled. Only the known document names are
// reported; tmp files from in-flight atomic writes are ignored. The writer
// publishes documents via rename, which fsnotify surfaces as a Create event
// on the final name.
func Watch(ctx context.Context, cacheDir string, logger *slog.Logger, cb DocumentCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(cacheDir); err != nil {
		return err
	}

	known := make(map[string]struct{})
	for _, name := range syncer.DocumentNames() {
		known[name] = struct{}{}
	}

	logger.Info("watcher: started", slog.String("dir", cacheDir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, ok := known[name]; !ok {
				continue
			}
			logger.Debug("watcher: document changed", slog.String("document", name))
			if cb != nil {
				cb(name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
