package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/sebastianszewc/localchat/internal/logging"
)

// Watch invokes onChange whenever settings.json is written, until ctx is
// canceled. The callback runs on the watcher goroutine and receives a fresh
// settings snapshot; in-flight turns are unaffected because the orchestrator
// snapshots settings per turn.
func (l *Loader) Watch(ctx context.Context, onChange func(Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file: editors and our own saves replace
	// the file, which would invalidate a file-level watch.
	if err := w.Add(l.dir); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		target := filepath.Base(l.SettingsPath())
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				onChange(l.Settings())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warnf("settings watcher: %v", err)
			}
		}
	}()

	return nil
}
