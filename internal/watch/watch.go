// Package watch reruns a deck load whenever the deck or one of its
// include files changes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rcliao/simdeck/internal/diag"
)

// RunFunc loads the deck and returns the files it read. The files are
// watched until the next run; after a failure the previous set is kept
// when none is returned.
type RunFunc func() ([]string, error)

// Option configures Watch.
type Option func(*watcher)

// WithDebounce sets how long events must settle before a rerun.
func WithDebounce(d time.Duration) Option {
	return func(w *watcher) { w.debounce = d }
}

// WithLogger logs reruns and watcher errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *watcher) { w.log = diag.NewLogger(l, "watch") }
}

type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      diag.Logger
	files    map[string]bool
	dirs     map[string]bool
}

// Watch calls run once and then after every change to the files it
// returned, until ctx is done. Directories are watched rather than files so
// editors that replace a file on save are seen.
func Watch(ctx context.Context, run RunFunc, opts ...Option) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w := &watcher{fs: fw, debounce: 300 * time.Millisecond, files: map[string]bool{}, dirs: map[string]bool{}}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.rerun(run); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			w.log.Log(slog.LevelDebug, "file changed", slog.String("file", ev.Name))
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.rerun(run); err != nil {
				return err
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Log(slog.LevelWarn, "watcher error", slog.String("error", err.Error()))
		}
	}
}

// rerun calls run and tracks the files it reports. Only failing to watch
// is returned; a failed run is logged and waits for the next change.
func (w *watcher) rerun(run RunFunc) error {
	files, err := run()
	if err != nil {
		w.log.Log(slog.LevelWarn, "run failed", slog.String("error", err.Error()))
	}
	if len(files) == 0 {
		return nil
	}
	w.files = make(map[string]bool, len(files))
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}
