package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often a user theme file is checked.
const DefaultPollInterval = time.Second

// Watcher polls a user theme file and reports new CSS. Imported files are
// not tracked; touching the theme file picks up their changes.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	theme        *Theme
	pollInterval time.Duration
	onChange     func(css string)
	onError      func(err error)

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a watcher for t.
func NewWatcher(t *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:       logger,
		theme:        t,
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval sets the polling interval.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback invoked with the new CSS. It runs on
// the watcher goroutine.
func (w *Watcher) SetChangeCallback(fn func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// SetErrorCallback sets the callback invoked when a reload fails.
func (w *Watcher) SetErrorCallback(fn func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start begins polling. Bundled themes are not watched.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running || w.theme == nil || w.theme.IsBundled() {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval := w.pollInterval
	w.mu.Unlock()

	go w.loop(ctx, interval)
	w.logger.Debug("theme watcher started", "path", w.theme.Path, "interval", interval)
}

// Stop stops polling and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
	w.logger.Debug("theme watcher stopped")
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context, interval time.Duration) {
	defer close(w.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	w.mu.Lock()
	t := w.theme
	onChange, onError := w.onChange, w.onError
	w.mu.Unlock()

	changed, err := t.Reload()
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", t.Path, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	if changed {
		w.logger.Info("theme file changed", "path", t.Path)
		if onChange != nil {
			onChange(t.CSS)
		}
	}
}
