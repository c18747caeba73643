package patternset

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is how long the watcher waits after a change so that several
// writes of one save are loaded once.
const settle = 100 * time.Millisecond

// Watcher reloads a pattern set file whenever it changes.
type Watcher struct {
	path     string
	logger   *zap.Logger
	onChange func(*Set, error)

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	watching bool
	done     chan struct{}
}

// NewWatcher creates a watcher for the file at path. onChange receives the
// reloaded set, or the error that prevented loading it.
func NewWatcher(path string, logger *zap.Logger, onChange func(*Set, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: abs, logger: logger, onChange: onChange}, nil
}

// Start begins watching. The parent directory is watched, since editors
// often replace a file instead of writing it.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watching {
		return errors.New("already watching")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}

	w.watcher = fw
	w.watching = true
	w.done = make(chan struct{})
	go w.loop(fw, w.done)
	w.logger.Info("watching pattern set", zap.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		w.logger.Debug("not watching")
		return nil
	}
	w.watching = false
	fw, done := w.watcher, w.done
	w.mu.Unlock()

	err := fw.Close()
	<-done
	return err
}

func (w *Watcher) loop(fw *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	time.Sleep(settle)
	s, err := Load(w.path)
	if err != nil {
		w.logger.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.logger.Info("reloaded pattern set", zap.String("path", w.path), zap.Int("patterns", s.Len()))
	}
	if w.onChange != nil {
		w.onChange(s, err)
	}
}
