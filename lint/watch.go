// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the watcher waits after the last
// filesystem event before re-linting, so editor save bursts collapse
// into one run.
const DefaultWatchDebounce = 250 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce is the quiet period after the last event before a re-lint.
	// Default: DefaultWatchDebounce
	Debounce time.Duration
}

// DefaultWatchOptions returns the default watcher configuration.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{Debounce: DefaultWatchDebounce}
}

// WatchOption is a functional option for NewWatcher.
type WatchOption func(*WatchOptions)

// WithDebounce sets the quiet period before a re-lint.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *WatchOptions) {
		o.Debounce = d
	}
}

// Watcher re-lints files as they change on disk.
//
// Description:
//
//	The watcher registers every directory under the requested paths,
//	performs one full initial run, then re-lints just the changed files
//	after each debounced burst of filesystem events. Each run's report is
//	handed to the onReport callback.
//
// Thread Safety: Watch must be called from a single goroutine; onReport
// is invoked from that same goroutine.
type Watcher struct {
	runner   *Runner
	onReport func(*Report)
	options  WatchOptions
}

// NewWatcher creates a watcher over the runner's rule set. onReport
// receives the initial full report and every subsequent incremental one.
func NewWatcher(runner *Runner, onReport func(*Report), opts ...WatchOption) *Watcher {
	options := DefaultWatchOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if onReport == nil {
		onReport = func(*Report) {}
	}
	return &Watcher{
		runner:   runner,
		onReport: onReport,
		options:  options,
	}
}

// Watch lints paths once, then blocks re-linting on changes until the
// context is canceled.
func (w *Watcher) Watch(ctx context.Context, paths []string) error {
	if ctx == nil {
		return fmt.Errorf("Watch: ctx must not be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, path := range paths {
		if err := w.addTree(fsw, path); err != nil {
			return err
		}
	}

	report, err := w.runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	w.onReport(report)
	slog.Info("watching for changes", slog.Int("paths", len(paths)))

	// The timer starts stopped; each event pushes the deadline out.
	timer := time.NewTimer(w.options.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(fsw, event, pending) {
				timer.Reset(w.options.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			changed := drainPending(pending)
			if len(changed) == 0 {
				continue
			}
			slog.Debug("re-linting changed files", slog.Int("files", len(changed)))
			report, err := w.runner.Run(ctx, changed)
			if err != nil {
				slog.Error("re-lint failed", slog.String("error", err.Error()))
				continue
			}
			w.onReport(report)
		}
	}
}

// handleEvent updates the watch set and the pending file set for one
// filesystem event, reporting whether the debounce timer should restart.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event, pending map[string]bool) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// A directory moved or created under a watched tree: watch it
			// and queue any lintable files it already contains.
			if err := w.addTreeCollecting(fsw, event.Name, pending); err != nil {
				slog.Warn("watch add failed",
					slog.String("path", event.Name),
					slog.String("error", err.Error()),
				)
			}
			return len(pending) > 0
		}
	}

	if !w.runner.matchesExtension(event.Name) {
		return false
	}
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename) {
		pending[event.Name] = true
		return true
	}
	if event.Op.Has(fsnotify.Remove) {
		// Nothing to lint; drop any queued run for it.
		delete(pending, event.Name)
	}
	return false
}

// addTree registers path and every non-ignored directory below it.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, path string) error {
	return w.addTreeCollecting(fsw, path, nil)
}

// addTreeCollecting registers directories like addTree and, when pending
// is non-nil, also queues the lintable files found along the way.
func (w *Watcher) addTreeCollecting(fsw *fsnotify.Watcher, path string, pending map[string]bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		// Watch the containing directory; watching a bare file misses
		// editors that replace on save.
		return fsw.Add(filepath.Dir(path))
	}

	ignored := make(map[string]bool, len(w.runner.options.IgnoreDirs))
	for _, dir := range w.runner.options.IgnoreDirs {
		ignored[dir] = true
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != path && (ignored[name] || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			if err := fsw.Add(p); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			return nil
		}
		if pending != nil && w.runner.matchesExtension(p) {
			pending[p] = true
		}
		return nil
	})
}

// drainPending empties the pending set, returning the files that still
// exist.
func drainPending(pending map[string]bool) []string {
	var changed []string
	for path := range pending {
		delete(pending, path)
		if _, err := os.Stat(path); err == nil {
			changed = append(changed, path)
		}
	}
	return changed
}
