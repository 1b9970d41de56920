// Package watcher re-runs an elf script whenever its source file changes.
//
// It watches the file's parent directory rather than the file itself, so
// editors that save via rename-and-replace still trigger a re-run.
package watcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after a change before it
// accepts another one. Editors often emit several events per save.
const DefaultDebounce = 100 * time.Millisecond

// clearScreen is the ANSI sequence that clears the terminal and homes the
// cursor.
const clearScreen = "\x1b[2J\x1b[H"

// RunFunc executes the watched script once. The watcher calls it on start
// and again after every accepted change event.
type RunFunc func(path string)

// Options configures a Watcher.
type Options struct {
	// Debounce is the minimum interval between runs. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// ClearScreen clears the terminal before each run.
	ClearScreen bool
}

// Watcher watches a single elf source file and re-runs it on change.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	run     RunFunc
	opts    Options
	stdout  io.Writer
	stderr  io.Writer

	mu         sync.Mutex
	lastChange time.Time
	runSeq     uint64
}

// New creates a watcher for the given file. The path is resolved to an
// absolute path so change events can be matched against it reliably.
func New(path string, run RunFunc, opts Options, stdout, stderr io.Writer) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	return &Watcher{
		watcher: fsWatcher,
		path:    abs,
		run:     run,
		opts:    opts,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// Start runs the script once, then watches for changes until the context
// is cancelled. The event loop runs in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.logInfo("watching %s", w.path)
	w.runOnce()

	go w.eventLoop(ctx)

	return nil
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// RunCount reports how many times the script has been run.
func (w *Watcher) RunCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runSeq
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.wantsEvent(event) {
				continue
			}
			if !w.acceptChange(time.Now()) {
				continue
			}
			w.logInfo("%s changed, re-running", filepath.Base(event.Name))
			w.runOnce()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watch error: %v", err)
		}
	}
}

// wantsEvent reports whether an event concerns the watched file and is a
// write or create. Renames and removals of sibling files are ignored.
func (w *Watcher) wantsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// acceptChange applies debouncing. It reports whether enough time has
// passed since the last accepted change.
func (w *Watcher) acceptChange(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.lastChange) < w.opts.Debounce {
		return false
	}
	w.lastChange = now
	return true
}

func (w *Watcher) runOnce() {
	w.mu.Lock()
	w.runSeq++
	w.mu.Unlock()

	if w.opts.ClearScreen {
		fmt.Fprint(w.stdout, clearScreen)
	}
	w.run(w.path)
}

func (w *Watcher) logInfo(format string, args ...interface{}) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *Watcher) logError(format string, args ...interface{}) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}
