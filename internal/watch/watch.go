// Package watch runs the long-lived rebuild loop: filesystem events on
// source files are debounced into rebuild requests, consumed one at a time
// so rebuild cycles never overlap. Rapid bursts coalesce into a single cycle.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/themekit/internal/config"
)

// RebuildFunc runs one full rebuild cycle. styleTouched reports whether any
// triggering path in the coalesced burst was a style source.
type RebuildFunc func(styleTouched bool) error

// Loop watches the source roots and drives rebuilds. It has two states:
// idle, waiting for a triggering event, and rebuilding. Rebuild errors are
// logged and the loop keeps waiting for the next event.
type Loop struct {
	cfg     *config.Config
	rebuild RebuildFunc

	mu           sync.Mutex
	timer        *time.Timer
	styleTouched bool
}

// New wires a watch loop around the given rebuild function.
func New(cfg *config.Config, rebuild RebuildFunc) *Loop {
	return &Loop{cfg: cfg, rebuild: rebuild}
}

// Run blocks until ctx is cancelled, dispatching debounced rebuilds.
func (l *Loop) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range l.watchRoots() {
		if err := addDirsRecursive(watcher, root); err != nil {
			return err
		}
	}

	rebuildReq := make(chan struct{}, 1)
	l.startRebuildWorker(ctx, rebuildReq)

	slog.Info("watching for changes", "roots", l.watchRoots())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			l.handleEvent(watcher, ev, rebuildReq)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// watchRoots returns the directories registered with the watcher: the
// components root plus every shared entry-point directory.
func (l *Loop) watchRoots() []string {
	roots := []string{l.cfg.ComponentsRoot()}
	roots = append(roots, l.cfg.StyleRoots()...)
	seen := map[string]bool{}
	for _, r := range roots {
		seen[r] = true
	}
	for _, e := range l.cfg.Entries.Scripts {
		dir := filepath.Join(l.cfg.Root, filepath.FromSlash(filepath.Dir(e)))
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}

// handleEvent filters one filesystem event and arms the debounce timer.
// Newly created directories are added to the watch set before filtering.
func (l *Loop) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, rebuildReq chan struct{}) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
			return
		}
	}
	if !l.IsSourcePath(ev.Name) {
		return
	}
	slog.Debug("source change detected", "path", ev.Name, "op", ev.Op.String())
	l.trigger(ev.Name, rebuildReq)
}

// trigger resets the debounce timer; when it fires, one rebuild request is
// enqueued (the channel holds at most one pending request).
func (l *Loop) trigger(path string, rebuildReq chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if isStyleSource(path) {
		l.styleTouched = true
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.cfg.Watch.DebounceInterval(), func() {
		select {
		case rebuildReq <- struct{}{}:
		default:
		}
	})
}

// startRebuildWorker consumes rebuild requests one at a time. Requests
// arriving while a rebuild runs set a pending flag and re-enqueue once the
// running cycle completes, so cycles never overlap.
func (l *Loop) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				l.mu.Lock()
				styleTouched := l.styleTouched
				l.styleTouched = false
				l.mu.Unlock()

				if err := l.rebuild(styleTouched); err != nil {
					slog.Warn("rebuild failed", "error", err)
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// IsSourcePath reports whether a changed path should trigger a rebuild.
// Under the components root only files beneath the source directory segment
// count: the pipeline's own relocated artifacts live next to the sources in
// the same watched tree, and reacting to them would loop forever.
func (l *Loop) IsSourcePath(path string) bool {
	if shouldIgnoreName(filepath.Base(path)) {
		return false
	}

	componentsRoot := l.cfg.ComponentsRoot()
	if rel, err := filepath.Rel(componentsRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
			if seg == l.cfg.Components.SourceDir {
				return true
			}
		}
		return false
	}
	return true
}

// shouldIgnoreName filters hidden files and editor temp/swap files.
func shouldIgnoreName(base string) bool {
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return false
}

// isStyleSource reports whether the path is a style source, which adds a
// lint pass to the rebuild cycle.
func isStyleSource(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".scss" || ext == ".css"
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}
