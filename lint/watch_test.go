// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

package lint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_Defaults(t *testing.T) {
	w := NewWatcher(NewRunner(nil), nil)
	require.NotNil(t, w)
	require.Equal(t, DefaultWatchDebounce, w.options.Debounce)

	// A nil callback is replaced with a no-op rather than crashing later.
	require.NotNil(t, w.onReport)
	w.onReport(&Report{})
}

func TestNewWatcher_WithDebounce(t *testing.T) {
	w := NewWatcher(NewRunner(nil), nil, WithDebounce(50*time.Millisecond))
	require.Equal(t, 50*time.Millisecond, w.options.Debounce)
}

func TestWatch_NilContext(t *testing.T) {
	w := NewWatcher(NewRunner(nil), nil)

	var ctx context.Context
	require.Error(t, w.Watch(ctx, nil))
}

func TestWatch_MissingPath(t *testing.T) {
	w := NewWatcher(NewRunner(nil), nil)

	err := w.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat")
}

func TestHandleEvent_QueuesLintableFiles(t *testing.T) {
	w := NewWatcher(NewRunner(nil), nil)
	pending := make(map[string]bool)

	require.True(t, w.handleEvent(nil, fsnotify.Event{Name: "x.js", Op: fsnotify.Write}, pending))
	require.True(t, pending["x.js"])

	require.False(t, w.handleEvent(nil, fsnotify.Event{Name: "x.txt", Op: fsnotify.Write}, pending))
	require.False(t, pending["x.txt"])

	require.False(t, w.handleEvent(nil, fsnotify.Event{Name: "x.js", Op: fsnotify.Remove}, pending))
	require.False(t, pending["x.js"])

	require.False(t, w.handleEvent(nil, fsnotify.Event{Name: "x.js", Op: fsnotify.Chmod}, pending))
	require.Empty(t, pending)
}

func TestHandleEvent_NewDirectoryQueuesItsFiles(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	writeFile(t, filepath.Join(sub, "a.js"), "var a = 1;\n")
	writeFile(t, filepath.Join(sub, "notes.txt"), "ignored\n")

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	w := NewWatcher(NewRunner(nil), nil)
	pending := make(map[string]bool)

	require.True(t, w.handleEvent(fsw, fsnotify.Event{Name: sub, Op: fsnotify.Create}, pending))
	require.True(t, pending[filepath.Join(sub, "a.js")])
	require.False(t, pending[filepath.Join(sub, "notes.txt")])
}

func TestDrainPending_DropsDeletedFiles(t *testing.T) {
	tmp := t.TempDir()
	existing := filepath.Join(tmp, "a.js")
	writeFile(t, existing, "var a = 1;\n")

	pending := map[string]bool{
		existing:                      true,
		filepath.Join(tmp, "gone.js"): true,
	}

	changed := drainPending(pending)
	require.Equal(t, []string{existing}, changed)
	require.Empty(t, pending)
}

func TestWatch_ReportsInitialRunAndChanges(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.js"), "var alpha = 1;\n")

	reports := make(chan *Report, 8)
	runner := NewRunner([]ConfiguredRule{flagRule("no-alpha", "alpha")})
	w := NewWatcher(runner, func(r *Report) { reports <- r }, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Watch(ctx, []string{tmp}) }()

	waitReport(t, reports, func(r *Report) bool {
		return len(r.Files) == 1 && len(r.Files[0].Diagnostics) == 1
	})

	changed := filepath.Join(tmp, "b.js")
	writeFile(t, changed, "var alpha = 2;\n")
	waitReport(t, reports, func(r *Report) bool {
		for _, f := range r.Files {
			if f.FilePath == changed {
				return true
			}
		}
		return false
	})

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func waitReport(t *testing.T, reports <-chan *Report, match func(*Report) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reports:
			if match(r) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for report")
		}
	}
}
