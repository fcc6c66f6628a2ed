package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSize struct{ w, h int }

func (s fixedSize) Size() (int, int) { return s.w, s.h }

type fixedScreen struct {
	area Rect
	last *Point
}

func (s *fixedScreen) WorkArea(near *Point) Rect {
	s.last = near
	return s.area
}

func TestPositioner_Anchors(t *testing.T) {
	screen := &fixedScreen{area: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	p := NewPositioner(fixedSize{400, 400}, screen)
	tray := &Rect{X: 1500, Y: 0, Width: 20, Height: 20}

	tests := []struct {
		anchor Anchor
		want   Point
	}{
		{AnchorTrayLeft, Point{1500, 0}},
		{AnchorTrayBottomLeft, Point{1500, 680}},
		{AnchorTrayRight, Point{1120, 0}},
		{AnchorTrayBottomRight, Point{1120, 680}},
		{AnchorTrayCenter, Point{1310, 0}},
		{AnchorTrayBottomCenter, Point{1310, 680}},
		{AnchorTopLeft, Point{0, 0}},
		{AnchorTopRight, Point{1520, 0}},
		{AnchorBottomLeft, Point{0, 680}},
		{AnchorBottomRight, Point{1520, 680}},
		{AnchorTopCenter, Point{760, 0}},
		{AnchorBottomCenter, Point{760, 680}},
		{AnchorLeftCenter, Point{0, 340}},
		{AnchorRightCenter, Point{1520, 340}},
		{AnchorCenter, Point{760, 340}},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Calculate(tt.anchor, tray))
		})
	}
}

func TestPositioner_TrayOverflowClampsToRight(t *testing.T) {
	screen := &fixedScreen{area: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	p := NewPositioner(fixedSize{400, 400}, screen)

	got := p.Calculate(AnchorTrayLeft, &Rect{X: 1700, Y: 0, Width: 20, Height: 20})
	assert.Equal(t, Point{1520, 0}, got)

	got = p.Calculate(AnchorTrayBottomLeft, &Rect{X: 1700, Y: 1060, Width: 20, Height: 20})
	assert.Equal(t, Point{1520, 680}, got)
}

func TestPositioner_OffsetMonitor(t *testing.T) {
	screen := &fixedScreen{area: Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}}
	p := NewPositioner(fixedSize{400, 400}, screen)

	assert.Equal(t, Point{2800, 0}, p.Calculate(AnchorTopRight, nil))
	assert.Equal(t, Point{2800, 624}, p.Calculate(AnchorBottomRight, nil))
	assert.Equal(t, Point{1920, 0}, p.Calculate(AnchorTopLeft, nil))
}

func TestPositioner_OddSizesFloor(t *testing.T) {
	screen := &fixedScreen{area: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	p := NewPositioner(fixedSize{401, 401}, screen)

	assert.Equal(t, Point{759, 0}, p.Calculate(AnchorTopCenter, nil))
}

func TestPositioner_PassesTriggerToScreen(t *testing.T) {
	screen := &fixedScreen{area: Rect{Width: 1920, Height: 1080}}
	p := NewPositioner(fixedSize{400, 400}, screen)

	p.Calculate(AnchorTrayCenter, &Rect{X: 100, Y: 50, Width: 20, Height: 20})
	require.NotNil(t, screen.last)
	assert.Equal(t, Point{100, 50}, *screen.last)

	p.Calculate(AnchorTopRight, nil)
	assert.Nil(t, screen.last)
}

func TestAnchor_TrayRelative(t *testing.T) {
	for _, a := range ValidAnchors() {
		assert.True(t, a.Valid(), a)
	}
	assert.True(t, AnchorTrayCenter.IsTrayRelative())
	assert.True(t, AnchorTrayBottomCenter.IsTrayRelative())
	assert.False(t, AnchorTopRight.IsTrayRelative())
	assert.False(t, Anchor("nowhere").Valid())
}

func TestPlatformDefaults(t *testing.T) {
	assert.Equal(t, AnchorTrayBottomCenter, DefaultAnchor("windows"))
	assert.Equal(t, AnchorTrayCenter, DefaultAnchor("linux"))
	assert.Equal(t, AnchorTrayCenter, DefaultAnchor("darwin"))
	assert.Equal(t, AnchorBottomRight, FallbackCorner("windows"))
	assert.Equal(t, AnchorTopRight, FallbackCorner("linux"))
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("100, 50,20,20")
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 100, Y: 50, Width: 20, Height: 20}, r)
	assert.Equal(t, "100,50,20,20", r.String())

	r, err = ParseRect("3,4")
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 3, Y: 4}, r)

	_, err = ParseRect("1,2,3")
	assert.Error(t, err)
	_, err = ParseRect("a,b")
	assert.Error(t, err)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, r.Contains(Point{10, 10}))
	assert.True(t, r.Contains(Point{14, 14}))
	assert.False(t, r.Contains(Point{15, 10}))
	assert.Equal(t, Point{12, 12}, r.Center())
}

func TestAreaFor(t *testing.T) {
	areas := []Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
	}

	assert.Equal(t, -1, AreaFor(nil, nil))
	assert.Equal(t, 0, AreaFor(areas, nil))
	assert.Equal(t, 0, AreaFor(areas, &Point{100, 10}))
	assert.Equal(t, 1, AreaFor(areas, &Point{2000, 10}))
	assert.Equal(t, 0, AreaFor(areas, &Point{-50, -50}))
}
