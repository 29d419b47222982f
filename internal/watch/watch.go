// Package watch re-runs a callback when source files under a tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault is the quiet period after the last event before a run.
const debounceDefault = 300 * time.Millisecond

// DefaultSkipDirs are directory names never watched.
var DefaultSkipDirs = []string{".git", "node_modules", "vendor"}

// ChangeFunc is called with the changed paths of one debounced batch.
type ChangeFunc func(ctx context.Context, paths []string)

// Config holds watcher configuration.
type Config struct {
	Root     string        // tree to watch
	Exts     []string      // only files with these extensions trigger a run
	SkipDirs []string      // directory base names or root-relative paths to skip
	Debounce time.Duration // default 300ms
	OnChange ChangeFunc
}

// Watcher watches a tree with fsnotify and calls OnChange serially.
type Watcher struct {
	cfg Config

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	fire    chan struct{}
}

// New creates a watcher with validated configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = debounceDefault
	}
	if cfg.SkipDirs == nil {
		cfg.SkipDirs = DefaultSkipDirs
	}
	return &Watcher{
		cfg:     cfg,
		pending: make(map[string]bool),
		fire:    make(chan struct{}, 1),
	}, nil
}

// Run watches until ctx is cancelled. Callbacks run on this goroutine, one
// at a time; events arriving during a callback form the next batch.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, w.cfg.Root); err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}

	slog.Info("watching for changes", "dir", w.cfg.Root, "debounce", w.cfg.Debounce)

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			slog.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.isDir(event.Name) {
				if err := w.addTree(watcher, event.Name); err != nil {
					slog.Warn("watch new dir", "dir", event.Name, "error", err)
				}
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case <-w.fire:
			paths := w.drain()
			if len(paths) == 0 {
				continue
			}
			slog.Debug("change detected", "files", len(paths))
			w.cfg.OnChange(ctx, paths)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// schedule records path and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	sort.Strings(paths)
	return paths
}

// Relevant reports whether a change to path should trigger a run.
func (w *Watcher) Relevant(path string) bool {
	if w.skipped(filepath.Dir(path)) {
		return false
	}
	ext := filepath.Ext(path)
	return ext != "" && slices.Contains(w.cfg.Exts, ext)
}

// skipped reports whether dir, or any parent below the root, is skipped.
func (w *Watcher) skipped(dir string) bool {
	rel, err := filepath.Rel(w.cfg.Root, dir)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, skip := range w.cfg.SkipDirs {
		skip = strings.TrimSuffix(filepath.ToSlash(filepath.Clean(skip)), "/")
		if rel == skip || strings.HasPrefix(rel, skip+"/") {
			return true
		}
		for _, part := range strings.Split(rel, "/") {
			if part == skip {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addTree adds root and every non-skipped directory below it.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Root && w.skipped(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
