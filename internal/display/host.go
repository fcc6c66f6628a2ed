package display

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/menubar/internal/menubar"
)

// Host is the libadwaita application the menubar runs in.
type Host struct {
	app    *adw.Application
	screen *Screen
	logger *slog.Logger
}

// NewHost wraps an adw application.
func NewHost(app *adw.Application, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		app:    app,
		screen: NewScreen(logger),
		logger: logger,
	}
}

// AppPath returns the directory containing the executable.
func (h *Host) AppPath() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}

// HideDock is a no-op: Linux desktops have no per-application dock toggle.
// The application never creates a regular toplevel besides the popup.
func (h *Host) HideDock() {
	h.logger.Debug("dock icon hidden")
}

// Hold keeps the application running while no window is open.
func (h *Host) Hold() {
	h.app.Hold()
}

// Release undoes Hold.
func (h *Host) Release() {
	h.app.Release()
}

// Screen returns the monitor geometry source.
func (h *Host) Screen() *Screen {
	return h.screen
}

// Application returns the underlying GTK application.
func (h *Host) Application() *gtk.Application {
	return &h.app.Application
}

// WindowFactory builds popups for this application.
func (h *Host) WindowFactory() menubar.WindowFactory {
	return func(opts menubar.WindowOptions) (menubar.Window, error) {
		if gdk.DisplayGetDefault() == nil {
			return nil, &DisplayError{Message: "no display available"}
		}
		return NewPopup(h.Application(), h.screen, opts, h.logger), nil
	}
}

// ReadModifiers fills the modifier flags of a from the default seat's
// keyboard. Compositors may only report state while the app has focus.
func ReadModifiers(a *menubar.Activation) {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}
	seat := display.DefaultSeat()
	if seat == nil {
		return
	}
	keyboard := seat.Keyboard()
	if keyboard == nil {
		return
	}

	state := keyboard.ModifierState()
	a.Shift = state&gdk.ShiftMask != 0
	a.Ctrl = state&gdk.ControlMask != 0
	a.Alt = state&gdk.AltMask != 0
	a.Meta = state&(gdk.MetaMask|gdk.SuperMask) != 0
}
