// Package watch re-runs a check when C-Minus sources under a directory change.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"cminus/internal/project"
)

// Options configure a Watcher.
type Options struct {
	// Debounce collects bursts of events into one batch.
	Debounce time.Duration
	// RatePerSecond caps how often onChange runs; 0 disables the cap.
	RatePerSecond float64
	// Matcher filters files and directories by path relative to the root.
	Matcher *project.Matcher
	// Ext restricts events to files with this extension; empty means any.
	Ext    string
	Logger *slog.Logger
}

// Watcher batches file changes under one root and hands them to onChange.
// onChange never runs concurrently with itself.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	opts      Options
	limiter   *rate.Limiter
	onChange  func([]string)
	log       *slog.Logger

	callbackMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
	ctx       context.Context
}

func New(root string, opts Options, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: nil onChange")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsWatcher: fsw,
		root:      filepath.Clean(root),
		opts:      opts,
		onChange:  onChange,
		log:       opts.Logger,
		pending:   make(map[string]struct{}),
		ctx:       context.Background(),
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if opts.RatePerSecond > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return w, nil
}

// Run watches until ctx is done. Directories created later are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	w.pendingMu.Lock()
	w.ctx = ctx
	w.pendingMu.Unlock()

	if err := w.watchRecursive(w.root); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipDir(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.enqueueExisting(event.Name)
			return
		}
	}
	if !w.wantFile(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) enqueueExisting(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.wantFile(path) {
			w.schedule(path)
		}
		return nil
	})
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) skipDir(path string) bool {
	rel, ok := w.rel(path)
	if !ok {
		return true
	}
	if rel == "." {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return w.opts.Matcher.Excluded(rel) || w.opts.Matcher.Excluded(rel+"/")
}

func (w *Watcher) wantFile(path string) bool {
	if w.opts.Ext != "" && filepath.Ext(path) != w.opts.Ext {
		return false
	}
	rel, ok := w.rel(path)
	if !ok {
		return false
	}
	return w.opts.Matcher.Match(rel)
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	ctx := w.ctx
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
	}
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
