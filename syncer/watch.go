package syncer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-runs fn whenever the metadata file changes, debouncing
// bursts of writes. It returns when ctx is done.
func Watch(ctx context.Context, metaPath string, debounce time.Duration, log *zap.SugaredLogger, fn func(context.Context) error) error {
	abs, err := filepath.Abs(metaPath)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory: editors typically replace the file, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debugf("change on %s (%s)", ev.Name, ev.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)
		case <-fire:
			if err := fn(ctx); err != nil {
				log.Errorf("sync failed: %v", err)
			}
		}
	}
}
