package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// WatchSeed reloads the seed file whenever it changes and hands the parsed
// result to apply, until ctx is cancelled. The parent directory is watched
// so editors that replace the file atomically are picked up. Invalid seeds
// are logged and skipped.
func WatchSeed(ctx context.Context, path string, logger *slog.Logger, apply func(*Seed) error) error {
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
	logger.Info("content watcher: started", slog.String("path", abs))

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			reload = timer.C
		} else {
			timer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("content watcher: stopped")
			return nil

		case <-reload:
			seed, err := LoadSeed(abs)
			if err != nil {
				logger.Warn("content watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if err := apply(seed); err != nil {
				logger.Warn("content watcher: apply failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("content watcher: reloaded",
				slog.Int("projects", len(seed.Projects)),
				slog.Int("skills", len(seed.Skills)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher: error", slog.String("error", err.Error()))
		}
	}
}
