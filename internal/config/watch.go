package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// reloadDebounce is the quiet period after the last event before a reload.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and hands every valid result to
// apply. Invalid edits are logged and skipped. The parent directory is watched
// so atomic replace-on-save is seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger log.Log, apply func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	// the timer restarts on every event, so a save is loaded once it settles
	var (
		debounce *time.Timer
		reload   <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				debounce.Reset(reloadDebounce)
			}
			reload = debounce.C
		case <-reload:
			reload = nil
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config reload rejected", log.String("path", path), log.Error(err))
				continue
			}
			logger.Info("config reloaded", log.String("path", path))
			apply(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", log.Error(err))
		}
	}
}
