package storage

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the vault root and publishes changes
// made outside this process on the FS hub until ctx is cancelled.
//
// New directories created at runtime are automatically added to the watch
// list. fsnotify reports a rename on the old path only; the new path
// arrives as a separate create event.
func (f *FS) Watch(ctx context.Context, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, f.root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", f.root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(ev.Name), tmpPrefix) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
				}
			}

			rel, relErr := f.Rel(ev.Name)
			if relErr != nil {
				continue
			}

			kind, ok := eventKind(ev.Op)
			if !ok {
				continue
			}
			logger.Debug("watcher: event", slog.String("path", rel), slog.String("kind", string(kind)))
			out := Event{Kind: kind, Path: rel}
			if kind == EventRenamed {
				out.OldPath = rel
			}
			f.Publish(out)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// eventKind maps an fsnotify op onto a store event kind. Chmod-only events
// are dropped.
func eventKind(op fsnotify.Op) (EventKind, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return EventCreated, true
	case op&fsnotify.Remove != 0:
		return EventDeleted, true
	case op&fsnotify.Rename != 0:
		return EventRenamed, true
	case op&fsnotify.Write != 0:
		return EventModified, true
	}
	return "", false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
