package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is an absolute screen coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a screen-space rectangle (position + size).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// String formats the rectangle as "x,y,width,height".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRect parses "x,y,width,height". Width and height may be omitted.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rectangle %q: want x,y or x,y,width,height", s)
	}

	vals := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		vals[i] = n
	}

	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// AreaFor returns the index of the area containing near, or 0 when near is
// nil or outside every area. It returns -1 for an empty list.
func AreaFor(areas []Rect, near *Point) int {
	if len(areas) == 0 {
		return -1
	}
	if near != nil {
		for i, a := range areas {
			if a.Contains(*near) {
				return i
			}
		}
	}
	return 0
}
