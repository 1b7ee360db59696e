// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is reloaded.
// Editors often write a file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// ReloadMsg carries a scenario re-read after its file changed. Err is set
// when the new contents do not parse; the old scenario keeps playing.
type ReloadMsg struct {
	Scenario *Scenario
	Err      error
}

// =============================================================================
// FILE WATCHER
// =============================================================================

// Watcher reloads a scenario file whenever it changes on disk. The parent
// directory is watched rather than the file so editors that save by
// rename keep working.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	reloads  chan ReloadMsg

	mu      sync.Mutex
	changed time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher starts watching the scenario file at path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fsw,
		debounce: debounce,
		reloads:  make(chan ReloadMsg, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.processEvents()
	go w.processPending()

	log.Debug("watching scenario", "path", abs)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Next returns a command that waits for the next reload. Re-issue it after
// each ReloadMsg to keep listening.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.ctx.Done():
			return nil
		case msg := <-w.reloads:
			return msg
		}
	}
}

// processEvents records changes to the watched file.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.changed = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("scenario watcher error", "path", w.path, "err", err)
		}
	}
}

// processPending reloads the file once it has been quiet for the debounce
// interval.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			ready := !w.changed.IsZero() && time.Since(w.changed) >= w.debounce
			if ready {
				w.changed = time.Time{}
			}
			w.mu.Unlock()

			if ready {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	sc, err := LoadFile(w.path)
	if err != nil {
		log.Warn("scenario reload failed", "path", w.path, "err", err)
	} else {
		log.Info("scenario reloaded", "name", sc.Name, "path", w.path)
	}

	msg := ReloadMsg{Scenario: sc, Err: err}
	select {
	case w.reloads <- msg:
	default:
		// Replace an unread reload with the newer one.
		select {
		case <-w.reloads:
		default:
		}
		select {
		case w.reloads <- msg:
		default:
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
