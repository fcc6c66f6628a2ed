package menubar

import "github.com/jmylchreest/menubar/internal/geometry"

// Host is the application the menubar lives in.
type Host interface {
	// AppPath is the application root directory.
	AppPath() string
	// HideDock removes the application's dock or taskbar presence.
	HideDock()
}

// ClickKind names a tray activation signal.
type ClickKind string

const (
	Click       ClickKind = "click"
	RightClick  ClickKind = "right-click"
	DoubleClick ClickKind = "double-click"
	MiddleClick ClickKind = "middle-click"
)

// Activation describes one tray icon activation.
type Activation struct {
	// Bounds of the tray icon, when the platform reports them.
	Bounds *geometry.Rect
	Alt    bool
	Shift  bool
	Ctrl   bool
	Meta   bool
}

// HasModifier reports whether any modifier key was held.
func (a Activation) HasModifier() bool {
	return a.Alt || a.Shift || a.Ctrl || a.Meta
}

// Tray is the status-area icon.
type Tray interface {
	// On registers handler for the given activation kind.
	On(kind ClickKind, handler func(Activation))
	SetTooltip(text string)
}

// IconSetter is implemented by trays that can swap their icon at runtime.
// An empty path selects the bundled default icon.
type IconSetter interface {
	SetIcon(path string) error
}

// BoundsProvider is implemented by trays that can report their own
// geometry outside of an activation.
type BoundsProvider interface {
	Bounds() (geometry.Rect, bool)
}

// Window is the popup window.
type Window interface {
	geometry.Sizer
	Show()
	Hide()
	IsVisible() bool
	SetPosition(x, y int)
	// LoadURL starts loading content into the window.
	LoadURL(url string) error
	SetVisibleOnAllWorkspaces(visible bool)
	// OnBlur registers a callback for focus loss.
	OnBlur(func())
	// OnClose registers a callback for window destruction.
	OnClose(func())
}

// WindowOptions are the creation parameters derived from the configuration.
type WindowOptions struct {
	Width       int
	Height      int
	Title       string
	Resizable   bool
	AlwaysOnTop bool
	// Frame draws window decorations. Only detached popups have one.
	Frame bool
	// Show maps the window on creation. The menubar always passes false.
	Show bool
}

// Positioner converts an anchor and optional trigger rectangle into a window origin.
type Positioner interface {
	Calculate(anchor geometry.Anchor, trigger *geometry.Rect) geometry.Point
}

// WindowFactory builds a new popup window.
type WindowFactory func(opts WindowOptions) (Window, error)

// TrayFactory builds the tray icon from an image path.
// An empty path selects the bundled default icon.
type TrayFactory func(iconPath string) (Tray, error)

// PositionerFactory binds a positioner to a freshly created window.
type PositionerFactory func(w Window) Positioner

// State is the visibility state of the popup.
type State int

const (
	StateNoWindow State = iota
	StateHidden
	StateVisible
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	default:
		return "no-window"
	}
}
