package shader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the reloaded source of a watched file, or the error that kept it
// from loading. The previous source stays valid when err is non-nil.
type ReloadFunc func(src Source, err error)

// watchedFile is one file registered with a Watcher.
type watchedFile struct {
	options  []SourceBuilderOption
	onReload []ReloadFunc
}

// Watcher reloads WGSL files when they change on disk. Directories are watched rather than
// files so that editors which replace a file on save are still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	mu    sync.Mutex
	files map[string]*watchedFile
	dirs  map[string]bool
}

// NewWatcher creates a watcher with no files.
//
// Returns:
//   - *Watcher: the watcher
//   - error: the fsnotify error, wrapped
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: create watcher: %w", err)
	}
	return &Watcher{
		fs:    fsw,
		files: make(map[string]*watchedFile),
		dirs:  make(map[string]bool),
	}, nil
}

// Watch registers a callback for a file. The same file may be watched more than once; each
// callback runs on every reload with the options of the first registration.
//
// Parameters:
//   - path: the WGSL file on the OS file system
//   - onReload: called from Run after every change
//   - options: load options used on reload
//
// Returns:
//   - error: the path could not be resolved or its directory could not be watched
func (w *Watcher) Watch(path string, onReload ReloadFunc, options ...SourceBuilderOption) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("shader: watch %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("shader: watch %q: %w", dir, err)
		}
		w.dirs[dir] = true
	}

	f, ok := w.files[abs]
	if !ok {
		f = &watchedFile{options: options}
		w.files[abs] = f
	}
	f.onReload = append(f.onReload, onReload)
	return nil
}

// Run dispatches file events until ctx is done or the watcher is closed. Callbacks run on
// the calling goroutine.
//
// Parameters:
//   - ctx: cancels the loop
//
// Returns:
//   - error: nil when ctx ends or Close is called
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			common.Logger().Warn("shader watcher error", "err", err)
		}
	}
}

// Close stops watching every directory.
func (w *Watcher) Close() error {
	if err := w.fs.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return fmt.Errorf("shader: close watcher: %w", err)
	}
	return nil
}

// handle reloads the file named by a write or create event and notifies its callbacks.
func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	f, ok := w.files[abs]
	var callbacks []ReloadFunc
	var options []SourceBuilderOption
	if ok {
		callbacks = append(callbacks, f.onReload...)
		options = f.options
	}
	w.mu.Unlock()
	if !ok {
		return
	}

	src, err := Load(abs, options...)
	if err != nil {
		common.Logger().Warn("shader reload failed", "path", abs, "err", err)
	} else {
		common.Logger().Debug("shader reloaded", "path", abs, "label", src.Label())
	}
	for _, cb := range callbacks {
		cb(src, err)
	}
}
