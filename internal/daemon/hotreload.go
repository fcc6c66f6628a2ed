package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/menubar/internal/config"
)

// DefaultDebounce collapses the burst of events an editor or an atomic
// save produces into a single reload.
const DefaultDebounce = 150 * time.Millisecond

// ConfigWatcher watches the config file and reports valid new contents.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	path     string
	debounce time.Duration

	watcher *fsnotify.Watcher

	// Last successfully loaded file contents
	current *config.Options

	onReloadCallback func(prev, next *config.Options)
	onErrorCallback  func(err error)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewConfigWatcher creates a watcher for the config file at path.
func NewConfigWatcher(path string, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		logger:   logger,
		path:     path,
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets the quiet period before a change is reloaded.
func (w *ConfigWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetReloadCallback sets the callback invoked with the previous and the new
// file contents. prev is nil when the watcher was started without initial
// options. It is not called when a change leaves every option untouched.
func (w *ConfigWatcher) SetReloadCallback(callback func(prev, next *config.Options)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReloadCallback = callback
}

// SetErrorCallback sets the callback invoked when the changed file fails
// to parse or validate.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onErrorCallback = callback
}

// Start begins watching. initial is the file contents the daemon started
// with; a nil value is treated as an empty file.
func (w *ConfigWatcher) Start(ctx context.Context, initial *config.Options) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	// The directory is watched so that atomic renames are seen.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return err
	}

	if initial == nil {
		initial = &config.Options{}
	}
	w.current = initial.Clone()
	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.mu.Unlock()

	go w.watchLoop(ctx)

	w.logger.Debug("config watcher started", "path", w.path)
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	_ = w.watcher.Close()
	w.logger.Debug("config watcher stopped")
}

// Current returns the last valid file contents.
func (w *ConfigWatcher) Current() *config.Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return nil
	}
	return w.current.Clone()
}

func (w *ConfigWatcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	filename := filepath.Base(w.path)

	w.mu.RLock()
	debounce := w.debounce
	w.mu.RUnlock()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-timer.C:
			w.reload()
		}
	}
}

// reload reads the file and fires the matching callback.
func (w *ConfigWatcher) reload() {
	w.mu.RLock()
	reloadCallback := w.onReloadCallback
	errorCallback := w.onErrorCallback
	current := w.current
	w.mu.RUnlock()

	next, err := config.Load(w.path)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "path", w.path, "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	if current != nil && len(current.Diff(next)) == 0 {
		w.logger.Debug("config file changed without option changes", "path", w.path)
		return
	}

	w.mu.Lock()
	w.current = next.Clone()
	w.mu.Unlock()

	w.logger.Info("config reloaded", "path", w.path)
	if reloadCallback != nil {
		reloadCallback(current, next)
	}
}
