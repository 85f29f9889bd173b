package graph

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/flowedit/pkg/errors"
)

// watchDebounce coalesces the burst of events editors emit per save.
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange with the re-read document each time the file at
// path is written, until ctx is cancelled. A document that fails to read is
// reported through onChange with a non-nil error and watching continues.
//
// The parent directory is watched rather than the file itself, so atomic
// saves that replace the file are seen.
func Watch(ctx context.Context, path string, onChange func(Document, error)) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange(ReadFile(abs))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(Document{}, errors.Wrap(errors.ErrCodeInternal, err, "watch %s", path))
		}
	}
}
