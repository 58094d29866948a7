package schemafile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/shrek82/msitable/logger"
)

// Watcher holds the current contents of a schema file and reloads it when
// the file changes on disk.
type Watcher struct {
	mu       sync.RWMutex
	file     *File
	path     string
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*File)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads the file at path. Call Watch to start following changes.
func NewWatcher(path string, log logger.Logger) (*Watcher, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Watcher{
		file:   f,
		path:   absPath,
		logger: log.WithFields(map[string]any{"path": absPath}),
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the last successfully loaded file.
func (w *Watcher) Get() *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.file
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// OnChange registers fn to run after every successful reload.
func (w *Watcher) OnChange(fn func(*File)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload reads the file again. On failure the previous contents are kept.
func (w *Watcher) Reload() error {
	f, err := Load(w.path)
	if err != nil {
		w.logger.Error("schema reload failed, keeping previous tables: %v", err)
		return err
	}

	w.mu.Lock()
	w.file = f
	fns := append([]func(*File){}, w.onChange...)
	w.mu.Unlock()

	for _, fn := range fns {
		fn(f)
	}
	w.logger.Info("schema file reloaded: %d tables", len(f.Tables))
	return nil
}

// Watch starts watching the file's directory, which also catches editors
// that save by renaming a new file into place.
func (w *Watcher) Watch() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = fw
	go w.loop()
	w.logger.Info("watching schema file for changes")
	return nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}

func (w *Watcher) loop() {
	name := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug("schema file event %s", event.Op)
				_ = w.Reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error: %v", err)
		case <-w.stopCh:
			return
		}
	}
}
