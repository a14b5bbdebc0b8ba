package lexicon

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Invalidator is anything holding data derived from a watched file.
type Invalidator interface {
	Invalidate()
}

// Watcher invalidates a cache when the local bulk file changes.
type Watcher struct {
	path     string
	target   Invalidator
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher starts watching path. The parent directory is watched so that
// files replaced by rename are noticed too.
func NewWatcher(path string, target Invalidator, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("can not resolve %q: %w", path, err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		target:   target,
		debounce: defaultDebounce,
		logger:   logger,
		watcher:  fsWatcher,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	logger.Info("Watching bulk file", zap.String("path", abs))
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("Bulk file changed", zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.target.Invalidate)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. A pending invalidation is dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
