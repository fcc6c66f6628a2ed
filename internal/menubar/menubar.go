package menubar

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/geometry"
)

var (
	// ErrNotReady is returned by operations that need the tray to exist.
	ErrNotReady = errors.New("menubar not ready")
	// ErrNoWindowFactory is returned when a window is needed but none can be built.
	ErrNoWindowFactory = errors.New("no window factory configured")
	// ErrNoTrayFactory is returned by Ready when no tray was supplied or can be built.
	ErrNoTrayFactory = errors.New("no tray factory configured")
)

// Option configures a Menubar.
type Option func(*Menubar)

// WithTray supplies an existing tray icon instead of building one.
func WithTray(t Tray) Option {
	return func(m *Menubar) { m.tray = t }
}

// WithTrayFactory sets how the tray icon is built on Ready.
func WithTrayFactory(f TrayFactory) Option {
	return func(m *Menubar) { m.newTray = f }
}

// WithWindow supplies an existing window. It is used for the first window
// only; windows created after a close come from the window factory.
func WithWindow(w Window) Option {
	return func(m *Menubar) { m.supplied = w }
}

// WithWindowFactory sets how popup windows are built.
func WithWindowFactory(f WindowFactory) Option {
	return func(m *Menubar) { m.newWindow = f }
}

// WithScreen positions windows with the geometry positioner on this screen.
func WithScreen(s geometry.Screen) Option {
	return func(m *Menubar) {
		m.newPositioner = func(w Window) Positioner {
			return geometry.NewPositioner(w, s)
		}
	}
}

// WithPositionerFactory overrides how positioners are bound to windows.
func WithPositionerFactory(f PositionerFactory) Option {
	return func(m *Menubar) { m.newPositioner = f }
}

// WithGOOS selects platform defaults for the corner fallback.
func WithGOOS(goos string) Option {
	return func(m *Menubar) { m.goos = goos }
}

// WithFileExists replaces the file check used for icon resolution.
func WithFileExists(fn func(path string) bool) Option {
	return func(m *Menubar) { m.fileExists = fn }
}

// WithThemeHandler is called when the theme option changes.
func WithThemeHandler(fn func(name string)) Option {
	return func(m *Menubar) { m.onTheme = fn }
}

// Menubar is a tray icon with a single attached popup window.
type Menubar struct {
	opts   *config.Options
	host   Host
	logger *slog.Logger
	goos   string

	newTray       TrayFactory
	newWindow     WindowFactory
	newPositioner PositionerFactory
	fileExists    func(string) bool
	onTheme       func(string)

	tray         Tray
	wired        map[ClickKind]bool
	supplied     Window
	window       Window
	windowID     string
	positioner   Positioner
	cachedBounds *geometry.Rect
	lastPosition *geometry.Point
	lastShown    time.Time
	ready        bool

	events *events
}

// New creates a menubar for normalized options. Nothing is built until Ready.
func New(opts *config.Options, host Host, logger *slog.Logger, options ...Option) *Menubar {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Menubar{
		host:       host,
		logger:     logger,
		goos:       runtime.GOOS,
		fileExists: fileExists,
		wired:      make(map[ClickKind]bool),
		events:     newEvents(),
	}
	for _, o := range options {
		o(m)
	}

	if opts == nil {
		env := config.Environment{GOOS: m.goos}
		if host != nil {
			env.AppPath = host.AppPath()
		}
		opts = config.Normalize(nil, env)
	}
	m.opts = opts

	return m
}

// Ready builds the tray and wires it up. It is called once, when the host
// application signals that it has finished launching.
func (m *Menubar) Ready() error {
	if m.ready {
		return nil
	}

	if !m.opts.ShowDockIcon && m.host != nil {
		m.host.HideDock()
	}

	if m.tray == nil {
		if m.newTray == nil {
			return ErrNoTrayFactory
		}
		tray, err := m.newTray(m.iconPath())
		if err != nil {
			return fmt.Errorf("failed to create tray: %w", err)
		}
		m.tray = tray
	}

	kind := m.clickKind()
	m.wireClick(kind)
	// Trays without a double-click signal (StatusNotifierItem) never fire this.
	m.wireClick(DoubleClick)
	m.tray.SetTooltip(m.opts.Tooltip)

	m.ready = true

	if m.opts.PreloadWindow {
		if err := m.ensureWindow(); err != nil {
			return fmt.Errorf("failed to preload window: %w", err)
		}
	}

	m.logger.Info("menubar ready",
		"dir", m.opts.Dir,
		"index", m.opts.Index,
		"anchor", m.opts.WindowPosition,
		"click", kind)

	m.emit(Event{Type: EventReady})
	return nil
}

// clickKind is the activation that toggles the popup.
func (m *Menubar) clickKind() ClickKind {
	if m.opts.ShowOnRightClick {
		return RightClick
	}
	return Click
}

// wireClick registers the toggle handler for kind once. A handler whose
// kind is no longer the configured click kind stays registered but idle.
func (m *Menubar) wireClick(kind ClickKind) {
	if m.wired[kind] {
		return
	}
	m.wired[kind] = true
	m.tray.On(kind, func(a Activation) {
		if kind != DoubleClick && kind != m.clickKind() {
			return
		}
		m.clicked(a)
	})
}

// IsReady reports whether Ready has completed.
func (m *Menubar) IsReady() bool {
	return m.ready
}

// On registers a listener for one event type and returns a function that
// removes it. Listeners run synchronously in emission order.
func (m *Menubar) On(t EventType, fn Listener) func() {
	return m.events.on(t, fn)
}

// Subscribe returns a channel receiving every event and a function that
// closes it. Events are dropped when the buffer is full.
func (m *Menubar) Subscribe(buffer int) (<-chan Event, func()) {
	return m.events.subscribe(buffer)
}

// Close releases listeners and subscribers.
func (m *Menubar) Close() {
	m.events.close()
}

// Tray returns the tray icon, or nil before Ready.
func (m *Menubar) Tray() Tray {
	return m.tray
}

// Window returns the current popup window, or nil.
func (m *Menubar) Window() Window {
	return m.window
}

// State returns the visibility state of the popup.
func (m *Menubar) State() State {
	switch {
	case m.window == nil:
		return StateNoWindow
	case m.window.IsVisible():
		return StateVisible
	default:
		return StateHidden
	}
}

// CachedBounds returns the last tray bounds recorded by a show, if any.
func (m *Menubar) CachedBounds() *geometry.Rect {
	if m.cachedBounds == nil {
		return nil
	}
	b := *m.cachedBounds
	return &b
}

// iconPath resolves the tray image: the configured icon or IconTemplate.png
// in the content directory, falling back to the bundled icon ("").
func (m *Menubar) iconPath() string {
	path := m.opts.IconPath()
	if m.fileExists(path) {
		return path
	}
	m.logger.Debug("icon not found, using bundled icon", "path", path)
	return ""
}

func (m *Menubar) emit(ev Event) {
	m.events.emit(ev)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
