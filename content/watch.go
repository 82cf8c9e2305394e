package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"

	"github.com/eringen/lexsite/listing"
)

// Watch reloads the content file at path whenever it changes and passes the
// new posts to fn. Bursts of events within debounce collapse into one
// reload. A file that fails to parse is logged and skipped so the last good
// content keeps serving. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func([]listing.Post)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file by renaming.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("content: watch %s: %w", filepath.Dir(abs), err)
	}

	logger := log.New("content")
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("watch %s: %v", path, err)
		case <-fire:
			fire = nil
			posts, err := LoadFile(abs)
			if err != nil {
				logger.Errorf("reload skipped: %v", err)
				continue
			}
			logger.Infof("reloaded %d posts from %s", len(posts), path)
			fn(posts)
		}
	}
}
