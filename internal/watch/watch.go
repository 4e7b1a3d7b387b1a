// Package watch turns a directory into a drop target: every item that
// appears directly inside it is handed to a submit function, once, after it
// has stopped changing. An item is submitted again only after it has been
// removed or moved away and dropped anew.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long an item must be quiet before it is submitted.
const DefaultSettle = 750 * time.Millisecond

// Watcher watches one directory for new top-level entries.
type Watcher struct {
	dir      string
	submit   func(path string)
	logger   *slog.Logger
	settle   time.Duration
	existing bool

	ready     chan struct{}
	readyOnce sync.Once

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    map[string]struct{} // submitted and still present
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithExisting submits the entries already present when Run starts.
func WithExisting() Option {
	return func(w *Watcher) {
		w.existing = true
	}
}

// New returns a watcher for dir. submit is called from timer goroutines and
// must be safe for concurrent use.
func New(dir string, submit func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		dir:     filepath.Clean(dir),
		submit:  submit,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		settle:  DefaultSettle,
		ready:   make(chan struct{}),
		pending: make(map[string]*time.Timer),
		done:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "drop-folder", "dir", w.dir)
	return w
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until ctx is done. It returns an error only if the watch could
// not be established.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("stat drop folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop folder %s is not a directory", w.dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.stopAll()

	if w.existing {
		w.submitExisting()
	}

	w.logger.Info("watching drop folder")
	w.readyOnce.Do(func() { close(w.ready) })

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("drop folder watcher stopping")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Dir(ev.Name) != w.dir || ignored(filepath.Base(ev.Name)) {
		return
	}

	// Chmod is not a drop signal: clearing attributes on a submitted item
	// reports one for that same entry.
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		// Rename is reported for the old name when an item is moved away.
		w.cancel(ev.Name)
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.schedule(ev.Name)
	}
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.done[path]; ok {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.logger.Debug("item dropped", "path", path)
	w.pending[path] = time.AfterFunc(w.settle, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	if _, err := os.Lstat(path); err != nil {
		w.cancel(path)
		w.logger.Debug("dropped item vanished before processing", "path", path)
		return
	}

	w.mu.Lock()
	_, ok := w.pending[path]
	delete(w.pending, path)
	if ok {
		w.done[path] = struct{}{}
	}
	w.mu.Unlock()
	if !ok {
		return
	}
	w.submit(path)
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
	delete(w.done, path)
}

func (w *Watcher) stopAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) submitExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to list drop folder", "error", err)
		return
	}
	for _, e := range entries {
		if ignored(e.Name()) {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		w.mu.Lock()
		w.done[path] = struct{}{}
		w.mu.Unlock()
		w.submit(path)
	}
}

// ignored reports names that are never treated as drops: hidden files such
// as .DS_Store and in-progress browser downloads.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".download") ||
		strings.HasSuffix(name, ".crdownload") ||
		strings.HasSuffix(name, ".part")
}
