package display

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

// contentObjectID is the builder object a .ui file must define.
const contentObjectID = "content"

// Popup is the menubar popup window.
type Popup struct {
	window  *gtk.Window
	screen  *Screen
	opts    menubar.WindowOptions
	logger  *slog.Logger
	layered bool

	allWorkspaces bool
	closed        bool

	onBlur  []func()
	onClose []func()
}

// NewPopup creates a hidden popup window.
func NewPopup(app *gtk.Application, screen *Screen, opts menubar.WindowOptions, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}
	if screen == nil {
		screen = NewScreen(logger)
	}

	p := &Popup{
		screen: screen,
		opts:   opts,
		logger: logger,
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetTitle(opts.Title)
	p.window.SetDecorated(opts.Frame)
	p.window.SetResizable(opts.Resizable)
	p.window.SetDefaultSize(opts.Width, opts.Height)
	p.window.AddCSSClass("menubar-popup")
	p.window.AddCSSClass(colorSchemeClass())
	if opts.Frame {
		p.window.AddCSSClass("detached")
	}

	if layershell.IsSupported() {
		p.layered = true
		layershell.InitForWindow(p.window)
		layer := layershell.LayerShellLayerTop
		if opts.AlwaysOnTop {
			layer = layershell.LayerShellLayerOverlay
		}
		layershell.SetLayer(p.window, layer)
		layershell.SetExclusiveZone(p.window, 0) // Don't reserve space
		layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeOnDemand)
		layershell.SetNamespace(p.window, "menubar-popup")

		// Absolute placement: pin to the top-left corner and move with margins.
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, false)
		layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, false)
	} else {
		logger.Debug("layer-shell not supported, popup placement left to the window manager")
	}

	p.connectSignals()

	if opts.Show {
		p.Show()
	}
	return p
}

func (p *Popup) connectSignals() {
	p.window.NotifyProperty("is-active", func() {
		if p.closed || p.window.IsActive() || !p.window.IsVisible() {
			return
		}
		for _, fn := range p.onBlur {
			fn()
		}
	})

	p.window.ConnectCloseRequest(func() bool {
		if p.closed {
			return false
		}
		p.closed = true
		for _, fn := range p.onClose {
			fn()
		}
		return false // let GTK destroy the window
	})
}

// Show maps and focuses the popup.
func (p *Popup) Show() {
	p.window.Present()
}

// Hide unmaps the popup without destroying it.
func (p *Popup) Hide() {
	p.window.SetVisible(false)
}

// IsVisible reports whether the popup is mapped.
func (p *Popup) IsVisible() bool {
	return !p.closed && p.window.IsVisible()
}

// Size returns the configured popup size.
func (p *Popup) Size() (int, int) {
	w, h := p.window.DefaultSize()
	if w <= 0 {
		w = p.opts.Width
	}
	if h <= 0 {
		h = p.opts.Height
	}
	return w, h
}

// SetPosition moves the popup to absolute screen coordinates. Without
// layer-shell the compositor decides and the request is only logged.
func (p *Popup) SetPosition(x, y int) {
	if !p.layered {
		p.logger.Debug("ignoring popup position", "x", x, "y", y)
		return
	}

	monitor, area := p.screen.MonitorAt(&geometry.Point{X: x, Y: y})
	if monitor != nil {
		layershell.SetMonitor(p.window, monitor)
	}
	layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, x-area.X)
	layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, y-area.Y)
}

// SetVisibleOnAllWorkspaces records the preference. Layer surfaces are not
// bound to a workspace, so only regular toplevels are affected by it.
func (p *Popup) SetVisibleOnAllWorkspaces(visible bool) {
	p.allWorkspaces = visible
	if !p.layered {
		p.logger.Debug("workspace pinning not available for toplevel popups", "visible", visible)
	}
}

// OnBlur registers a callback for focus loss.
func (p *Popup) OnBlur(fn func()) {
	p.onBlur = append(p.onBlur, fn)
}

// OnClose registers a callback for window destruction.
func (p *Popup) OnClose(fn func()) {
	p.onClose = append(p.onClose, fn)
}

// Close destroys the popup window, firing the close callbacks.
func (p *Popup) Close() {
	p.window.Close()
}

// LoadURL sets the popup content. file:// URLs ending in .ui are loaded with
// GtkBuilder and must define an object with id "content"; any other local
// file or remote URL is shown as a link.
func (p *Popup) LoadURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &DisplayError{Message: "invalid content URL", Cause: err}
	}

	if u.Scheme != "file" {
		link := gtk.NewLinkButtonWithLabel(raw, raw)
		link.AddCSSClass("menubar-content")
		p.window.SetChild(link)
		return nil
	}

	path := filepath.FromSlash(u.Path)
	if _, err := os.Stat(path); err != nil {
		return &DisplayError{Message: "content not found", Cause: err}
	}

	if strings.EqualFold(filepath.Ext(path), ".ui") {
		child, err := loadBuilderContent(path)
		if err != nil {
			return err
		}
		p.window.SetChild(child)
		p.logger.Debug("loaded popup content", "path", path)
		return nil
	}

	label := gtk.NewLabel(filepath.Base(path))
	label.AddCSSClass("menubar-content")
	p.window.SetChild(label)
	return nil
}

func loadBuilderContent(path string) (gtk.Widgetter, error) {
	builder := gtk.NewBuilderFromFile(path)
	obj := builder.GetObject(contentObjectID)
	if obj == nil {
		return nil, &DisplayError{Message: fmt.Sprintf("%s: no object with id %q", path, contentObjectID)}
	}
	widget, ok := obj.Cast().(gtk.Widgetter)
	if !ok {
		return nil, &DisplayError{Message: fmt.Sprintf("%s: object %q is not a widget", path, contentObjectID)}
	}
	return widget, nil
}

// colorSchemeClass returns "light" or "dark" from the libadwaita style manager.
func colorSchemeClass() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
