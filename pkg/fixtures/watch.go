package fixtures

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spicery/jsast/pkg/ctxlog"
)

const DefaultDebounce = 250 * time.Millisecond

// Watch rebuilds the fixture of a template whenever the template is created
// or written, until ctx is done. Changes arriving within the debounce window
// are handled together. A failed rebuild is logged and watching continues.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range b.config.Directories {
		if err := watcher.Add(dir); err != nil {
			return &FileError{Path: dir, Err: err}
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := ctxlog.FromContext(ctx)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if !b.IsTemplate(filepath.Base(path)) {
				continue
			}
			if len(pending) > 0 && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			pending[path] = true
			timer.Reset(debounce)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			for _, path := range changed {
				if err := b.BuildFile(ctx, path); err != nil {
					logger.Error("rebuild failed", "path", path, "error", err)
				}
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}
