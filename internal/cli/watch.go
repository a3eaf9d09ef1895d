package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs the burst of events a single save produces.
const watchDebounce = 300 * time.Millisecond

// watchFile calls fire once and then again after every change to path,
// until ctx is done. Errors from fire are reported and watching goes on.
func watchFile(ctx context.Context, path string, out io.Writer, logger *slog.Logger, fire func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so watch its directory.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fireAndReport := func() {
		if err := fire(); err != nil {
			logger.Error("salvo failed", slog.Any("error", err))
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)
	}
	fireAndReport()

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("config changed", slog.String("event", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			debounce = timer.C

		case <-debounce:
			debounce = nil
			fmt.Fprintf(out, "\nConfig changed: %s\nFiring again...\n\n", path)
			fireAndReport()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}
