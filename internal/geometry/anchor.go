package geometry

import "strings"

// Anchor is a symbolic window position such as "trayCenter" or "topRight".
type Anchor string

const (
	AnchorTrayLeft         Anchor = "trayLeft"
	AnchorTrayBottomLeft   Anchor = "trayBottomLeft"
	AnchorTrayRight        Anchor = "trayRight"
	AnchorTrayBottomRight  Anchor = "trayBottomRight"
	AnchorTrayCenter       Anchor = "trayCenter"
	AnchorTrayBottomCenter Anchor = "trayBottomCenter"
	AnchorTopLeft          Anchor = "topLeft"
	AnchorTopRight         Anchor = "topRight"
	AnchorBottomLeft       Anchor = "bottomLeft"
	AnchorBottomRight      Anchor = "bottomRight"
	AnchorTopCenter        Anchor = "topCenter"
	AnchorBottomCenter     Anchor = "bottomCenter"
	AnchorLeftCenter       Anchor = "leftCenter"
	AnchorRightCenter      Anchor = "rightCenter"
	AnchorCenter           Anchor = "center"
)

// trayPrefix marks anchors that are relative to the tray icon bounds.
const trayPrefix = "tray"

// ValidAnchors returns all supported anchor names.
func ValidAnchors() []Anchor {
	return []Anchor{
		AnchorTrayLeft,
		AnchorTrayBottomLeft,
		AnchorTrayRight,
		AnchorTrayBottomRight,
		AnchorTrayCenter,
		AnchorTrayBottomCenter,
		AnchorTopLeft,
		AnchorTopRight,
		AnchorBottomLeft,
		AnchorBottomRight,
		AnchorTopCenter,
		AnchorBottomCenter,
		AnchorLeftCenter,
		AnchorRightCenter,
		AnchorCenter,
	}
}

// Valid reports whether a is one of the supported anchors.
func (a Anchor) Valid() bool {
	for _, v := range ValidAnchors() {
		if a == v {
			return true
		}
	}
	return false
}

// IsTrayRelative reports whether the anchor needs the tray icon bounds.
func (a Anchor) IsTrayRelative() bool {
	return strings.HasPrefix(string(a), trayPrefix)
}

// DefaultAnchor returns the platform default window position.
// Windows keeps its taskbar at the bottom, everything else is assumed to
// have the tray along the top edge.
func DefaultAnchor(goos string) Anchor {
	if goos == "windows" {
		return AnchorTrayBottomCenter
	}
	return AnchorTrayCenter
}

// FallbackCorner returns the fixed corner used instead of a tray anchor
// when no tray bounds are known.
func FallbackCorner(goos string) Anchor {
	if goos == "windows" {
		return AnchorBottomRight
	}
	return AnchorTopRight
}
