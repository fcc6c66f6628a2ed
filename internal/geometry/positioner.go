package geometry

import "math"

// Sizer reports the current window size.
type Sizer interface {
	Size() (width, height int)
}

// Screen reports the usable area of the display nearest to a point.
// A nil point asks for the default display.
type Screen interface {
	WorkArea(near *Point) Rect
}

// Positioner calculates window coordinates for a single window.
// It holds no state of its own beyond the window and screen it is bound to.
type Positioner struct {
	window Sizer
	screen Screen
}

// NewPositioner binds a positioner to a window and a screen.
func NewPositioner(window Sizer, screen Screen) *Positioner {
	return &Positioner{window: window, screen: screen}
}

// Calculate returns the window origin for the given anchor.
// The trigger rectangle is only consulted for tray anchors; a nil trigger is
// treated as a zero rectangle. Tray anchors that would push the window past
// the right edge of the screen are clamped to the topRight column.
func (p *Positioner) Calculate(anchor Anchor, trigger *Rect) Point {
	var near *Point
	tray := Rect{}
	if trigger != nil {
		tray = *trigger
		near = &Point{X: tray.X, Y: tray.Y}
	}

	screen := p.screen.WorkArea(near)
	winW, winH := p.window.Size()

	pos := position(anchor, screen, tray, winW, winH)

	if anchor.IsTrayRelative() && pos.X+winW > screen.X+screen.Width {
		return Point{X: position(AnchorTopRight, screen, tray, winW, winH).X, Y: pos.Y}
	}
	return pos
}

func position(anchor Anchor, screen, tray Rect, winW, winH int) Point {
	sx, sy := float64(screen.X), float64(screen.Y)
	sw, sh := float64(screen.Width), float64(screen.Height)
	tx, tw := float64(tray.X), float64(tray.Width)
	ww, wh := float64(winW), float64(winH)

	top := screen.Y
	bottom := floor(sh - (wh - sy))
	left := screen.X
	right := floor(sx + (sw - ww))
	hcenter := floor(sx + (sw/2 - ww/2))
	vcenter := screen.Y + floor(sh/2) - floor(wh/2)

	trayLeft := floor(tx)
	trayRight := floor(tx - ww + tw)
	trayCenter := floor(tx - ww/2 + tw/2)

	switch anchor {
	case AnchorTrayLeft:
		return Point{X: trayLeft, Y: top}
	case AnchorTrayBottomLeft:
		return Point{X: trayLeft, Y: bottom}
	case AnchorTrayRight:
		return Point{X: trayRight, Y: top}
	case AnchorTrayBottomRight:
		return Point{X: trayRight, Y: bottom}
	case AnchorTrayCenter:
		return Point{X: trayCenter, Y: top}
	case AnchorTrayBottomCenter:
		return Point{X: trayCenter, Y: bottom}
	case AnchorTopLeft:
		return Point{X: left, Y: top}
	case AnchorTopRight:
		return Point{X: right, Y: top}
	case AnchorBottomLeft:
		return Point{X: left, Y: bottom}
	case AnchorBottomRight:
		return Point{X: right, Y: bottom}
	case AnchorTopCenter:
		return Point{X: hcenter, Y: top}
	case AnchorBottomCenter:
		return Point{X: hcenter, Y: bottom}
	case AnchorLeftCenter:
		return Point{X: left, Y: vcenter}
	case AnchorRightCenter:
		return Point{X: right, Y: vcenter}
	default: // AnchorCenter and anything unknown
		return Point{X: hcenter, Y: floor((sh+sy)/2 - wh/2)}
	}
}

func floor(f float64) int {
	return int(math.Floor(f))
}
