// Package watch re-runs a callback when any of a set of files changes
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for further changes before
// invoking the callback
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher monitors a set of files and triggers a callback when they change.
// Parent directories are watched rather than the files themselves, so files
// replaced by editors through rename are still picked up.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	logger    *zap.Logger
	onChange  func([]string) error

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewFileWatcher creates a watcher for files. onChange receives the sorted
// list of changed files once events settle.
func NewFileWatcher(files []string, onChange func([]string) error, logger *zap.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(DefaultDebounce),
		logger:    logger,
		onChange:  onChange,
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		stopChan:  make(chan struct{}),
	}

	fw.debouncer.SetCallback(func(changed []string) {
		if err := fw.onChange(changed); err != nil {
			fw.logger.Error("error handling file changes",
				zap.Strings("files", changed),
				zap.Error(err))
		}
	})

	if err := fw.SetFiles(files); err != nil {
		watcher.Close()
		return nil, err
	}
	return fw, nil
}

// SetFiles replaces the set of tracked files, watching any new parent
// directories
func (fw *FileWatcher) SetFiles(files []string) error {
	tracked := make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		tracked[abs] = struct{}{}
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	for f := range tracked {
		dir := filepath.Dir(f)
		if _, ok := fw.dirs[dir]; ok {
			continue
		}
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.dirs[dir] = struct{}{}
		fw.logger.Debug("watching directory", zap.String("dir", dir))
	}

	fw.files = tracked
	return nil
}

// Files returns the tracked files in sorted order
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	out := make([]string, 0, len(fw.files))
	for f := range fw.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Start begins watching in the background
func (fw *FileWatcher) Start() error {
	select {
	case <-fw.stopChan:
		return fmt.Errorf("watcher already stopped")
	default:
	}

	fw.wg.Add(1)
	go fw.watch()
	return nil
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	select {
	case <-fw.stopChan:
		return nil
	default:
		close(fw.stopChan)
	}

	fw.wg.Wait()
	fw.debouncer.Stop()
	return fw.watcher.Close()
}

// watch is the main event loop
func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if fw.tracks(event.Name) {
				fw.logger.Debug("file changed", zap.String("file", event.Name))
				fw.debouncer.Add(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

// tracks reports whether path is one of the watched files
func (fw *FileWatcher) tracks(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	_, ok := fw.files[abs]
	return ok
}

// Debouncer collects file changes and triggers callbacks after a delay.
// Callbacks never overlap.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	running  sync.Mutex
	callback func([]string)
	stopChan chan struct{}
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Add adds a file to the debouncer
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	select {
	case <-d.stopChan:
		return
	default:
	}

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush triggers the callback with accumulated files
func (d *Debouncer) flush() {
	d.running.Lock()
	defer d.running.Unlock()

	d.mutex.Lock()
	if len(d.files) == 0 || d.callback == nil {
		d.mutex.Unlock()
		return
	}

	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	sort.Strings(files)

	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	callback(files)
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop stops the debouncer, dropping pending files. It returns once a
// callback already in progress has finished.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
		d.files = make(map[string]struct{})
	}
	d.mutex.Unlock()

	d.running.Lock()
	d.running.Unlock()
}
