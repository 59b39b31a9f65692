package source

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the CSV data directory and drops the parsed-row cache
// whenever a .csv file is written, created, removed, or renamed, so the
// next request re-reads fresh content. Events are debounced because
// exports are written in bursts. onReload, if non-nil, is called after
// each cache drop. Runs until ctx is cancelled.
func Watch(ctx context.Context, src *CSV, logger *slog.Logger, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(src.Dir()); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", src.Dir()))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(500 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			src.Reload()
			logger.Info("watcher: data cache dropped")
			if onReload != nil {
				onReload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(ev.Name), ".csv") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: csv changed",
					slog.String("path", ev.Name),
					slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}
