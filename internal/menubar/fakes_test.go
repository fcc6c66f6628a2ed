package menubar

import (
	"errors"

	"github.com/jmylchreest/menubar/internal/geometry"
)

type fakeHost struct {
	appPath    string
	dockHidden int
}

func (h *fakeHost) AppPath() string { return h.appPath }
func (h *fakeHost) HideDock()       { h.dockHidden++ }

type fakeTray struct {
	handlers map[ClickKind][]func(Activation)
	tooltip  string
	icon     string
	iconSets int
}

func newFakeTray() *fakeTray {
	return &fakeTray{handlers: make(map[ClickKind][]func(Activation))}
}

func (t *fakeTray) On(kind ClickKind, handler func(Activation)) {
	t.handlers[kind] = append(t.handlers[kind], handler)
}

func (t *fakeTray) SetTooltip(text string) { t.tooltip = text }

func (t *fakeTray) SetIcon(path string) error {
	t.icon = path
	t.iconSets++
	return nil
}

func (t *fakeTray) activate(kind ClickKind, a Activation) {
	for _, h := range t.handlers[kind] {
		h(a)
	}
}

type fakeWindow struct {
	opts          WindowOptions
	width, height int
	visible       bool
	x, y          int
	url           string
	loadErr       error
	allWorkspaces bool
	onBlur        []func()
	onClose       []func()
	calls         []string
}

func (w *fakeWindow) Size() (int, int) { return w.width, w.height }

func (w *fakeWindow) Show() {
	w.visible = true
	w.calls = append(w.calls, "show")
}

func (w *fakeWindow) Hide() {
	w.visible = false
	w.calls = append(w.calls, "hide")
}

func (w *fakeWindow) IsVisible() bool { return w.visible }

func (w *fakeWindow) SetPosition(x, y int) {
	w.x, w.y = x, y
	w.calls = append(w.calls, "position")
}

func (w *fakeWindow) LoadURL(url string) error {
	w.url = url
	w.calls = append(w.calls, "load")
	return w.loadErr
}

func (w *fakeWindow) SetVisibleOnAllWorkspaces(visible bool) { w.allWorkspaces = visible }
func (w *fakeWindow) OnBlur(fn func())                       { w.onBlur = append(w.onBlur, fn) }
func (w *fakeWindow) OnClose(fn func())                      { w.onClose = append(w.onClose, fn) }

func (w *fakeWindow) blur() {
	for _, fn := range w.onBlur {
		fn()
	}
}

func (w *fakeWindow) close() {
	w.visible = false
	for _, fn := range w.onClose {
		fn()
	}
}

type windowFactory struct {
	created []*fakeWindow
	err     error
}

func (f *windowFactory) build(opts WindowOptions) (Window, error) {
	if f.err != nil {
		return nil, f.err
	}
	w := &fakeWindow{opts: opts, width: opts.Width, height: opts.Height}
	f.created = append(f.created, w)
	return w, nil
}

func (f *windowFactory) last() *fakeWindow {
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

type positionCall struct {
	anchor  geometry.Anchor
	trigger *geometry.Rect
}

type recordingPositioner struct {
	inner *geometry.Positioner
	calls []positionCall
}

func (p *recordingPositioner) Calculate(anchor geometry.Anchor, trigger *geometry.Rect) geometry.Point {
	var t *geometry.Rect
	if trigger != nil {
		c := *trigger
		t = &c
	}
	p.calls = append(p.calls, positionCall{anchor: anchor, trigger: t})
	return p.inner.Calculate(anchor, trigger)
}

type fixedScreen geometry.Rect

func (s fixedScreen) WorkArea(*geometry.Point) geometry.Rect { return geometry.Rect(s) }

type positionerFactory struct {
	screen geometry.Screen
	made   []*recordingPositioner
}

func (f *positionerFactory) build(w Window) Positioner {
	p := &recordingPositioner{inner: geometry.NewPositioner(w, f.screen)}
	f.made = append(f.made, p)
	return p
}

func (f *positionerFactory) last() *recordingPositioner {
	if len(f.made) == 0 {
		return nil
	}
	return f.made[len(f.made)-1]
}

type eventLog struct {
	types []EventType
}

func (l *eventLog) record(m *Menubar) {
	for _, t := range EventTypes() {
		m.On(t, func(ev Event) { l.types = append(l.types, ev.Type) })
	}
}

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, got := range l.types {
		if got == t {
			n++
		}
	}
	return n
}

func (l *eventLog) reset() { l.types = nil }

var errBoom = errors.New("boom")
