package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader owns the CSS provider of the popup and keeps it in sync with the
// selected theme. Methods other than the watcher callbacks must be called
// on the GTK main loop.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	dir      string
	theme    *Theme
	watcher  *Watcher
	ctx      context.Context
	onError  func(err error)
}

// NewLoader creates a loader reading user themes from Dir().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := Dir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
	}
	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		dir:      dir,
		ctx:      context.Background(),
	}
}

// SetErrorCallback sets the callback for theme load and reload failures.
func (l *Loader) SetErrorCallback(fn func(err error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Apply installs the provider on display, or on the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// Watch enables hot reload of user themes until ctx is done.
func (l *Loader) Watch(ctx context.Context) {
	l.mu.Lock()
	l.ctx = ctx
	t := l.theme
	l.mu.Unlock()
	if t != nil {
		l.watch(t)
	}
}

// Use switches to the named theme. Unknown names fall back to the default
// theme and are reported through the error callback.
func (l *Loader) Use(name string) {
	t, err := Resolve(name, l.dir)
	if err != nil {
		l.logger.Warn("theme unavailable, using default", "theme", name, "error", err)
		l.reportError(err)
		t = Default()
	}

	l.provider.LoadFromString(t.CSS)
	l.mu.Lock()
	l.theme = t
	l.mu.Unlock()

	l.logger.Info("loaded theme", "name", t.Name, "path", t.Path)
	l.watch(t)
}

// Current returns the name of the loaded theme.
func (l *Loader) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}

// Stop ends hot reload.
func (l *Loader) Stop() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

func (l *Loader) watch(t *Theme) {
	l.Stop()
	if t.IsBundled() {
		return
	}

	w := NewWatcher(t, l.logger)
	w.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded theme", "name", t.Name)
		})
	})
	w.SetErrorCallback(l.reportError)

	l.mu.Lock()
	l.watcher = w
	ctx := l.ctx
	l.mu.Unlock()
	w.Start(ctx)
}

func (l *Loader) reportError(err error) {
	l.mu.Lock()
	fn := l.onError
	l.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}
