// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the watcher waits after the last write
// before reloading.
const DefaultWatchDebounce = 200 * time.Millisecond

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// Watcher reloads the config file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save through rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(*Config, error)

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher for the config file at path. onChange is called
// from the watcher goroutine with the reloaded config or the load error.
func NewWatcher(path string, debounce time.Duration, onChange func(*Config, error)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start begins processing events until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	go w.run(ctx)
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	err := w.watcher.Close()
	if cancel != nil {
		cancel()
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case now := <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if due && w.onChange != nil {
				w.onChange(LoadFromPath(w.path))
			}
		}
	}
}
