package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the freshly loaded configuration after the watched
// file changed.
type ReloadHandler func(Config)

// ErrorHandler receives watch or reload errors. Optional.
type ErrorHandler func(error)

// Watcher reloads the configuration when the file changes on disk. The
// containing directory is watched rather than the file itself so that
// editors which replace the file atomically are still detected.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	onReload ReloadHandler
	onError  ErrorHandler

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch starts watching the config file at path. The handler is called
// from a background goroutine after every successful reload.
func Watch(path string, onReload ReloadHandler, onError ErrorHandler) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		fsw:      fsw,
		onReload: onReload,
		onError:  onError,
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Close stops the watcher and waits for the event loop to finish.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.reportError(err)
		return
	}
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
