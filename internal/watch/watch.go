// Package watch reloads a backlog file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/importer"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce absorbs the burst of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the freshly parsed backlog, or the error that prevented
// loading it.
type Handler func(b *domain.ProjectBacklog, err error)

// Watch loads path once, then again after every change, calling onChange
// each time. It blocks until ctx is done.
//
// The parent directory is watched rather than the file because many editors
// save by writing a temporary file and renaming it over the original.
func Watch(ctx context.Context, path string, onChange Handler) error {
	return watch(ctx, path, DefaultDebounce, onChange)
}

func watch(ctx context.Context, path string, debounce time.Duration, onChange Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := importer.FormatFromPath(abs); err != nil {
		return err
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	onChange(importer.Load(abs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

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
			timer.Reset(debounce)

		case <-timer.C:
			onChange(importer.Load(abs))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watching %s: %w", abs, err))
		}
	}
}
