package sni

import (
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

func TestPixmapFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	p := PixmapFromImage(img)

	assert.Equal(t, int32(2), p.Width)
	assert.Equal(t, int32(1), p.Height)
	assert.Equal(t, []byte{255, 10, 20, 30, 128, 1, 2, 3}, p.Data)
}

func TestIconCache_Bundled(t *testing.T) {
	cache, err := NewIconCache(4, nil)
	require.NoError(t, err)

	p, err := cache.Load("")
	require.NoError(t, err)

	assert.Equal(t, int32(22), p.Width)
	assert.Equal(t, int32(22), p.Height)
	require.Len(t, p.Data, 22*22*4)

	// corner is transparent, center is opaque black
	assert.Equal(t, []byte{0, 0, 0, 0}, p.Data[0:4])
	center := (10*22 + 10) * 4
	assert.Equal(t, []byte{255, 0, 0, 0}, p.Data[center:center+4])

	_, err = cache.Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func writePNG(t *testing.T, path string, size int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestIconCache_FileReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	writePNG(t, path, 4, color.NRGBA{R: 255, A: 255})

	cache, err := NewIconCache(4, nil)
	require.NoError(t, err)

	p, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.Width)
	assert.Equal(t, []byte{255, 255, 0, 0}, p.Data[0:4])

	_, err = cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	writePNG(t, path, 8, color.NRGBA{B: 255, A: 255})
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	p, err = cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(8), p.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, p.Data[0:4])
	assert.Equal(t, 2, cache.Len())
}

func TestIconCache_Errors(t *testing.T) {
	cache, err := NewIconCache(4, nil)
	require.NoError(t, err)

	_, err = cache.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0644))
	_, err = cache.Load(bad)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestActivation(t *testing.T) {
	a := activation(0, 0)
	assert.Nil(t, a.Bounds)

	a = activation(1500, 12)
	require.NotNil(t, a.Bounds)
	assert.Equal(t, geometry.Rect{X: 1500, Y: 12}, *a.Bounds)
	assert.False(t, a.HasModifier())
}

func newTestItem(dispatch func(func())) *Item {
	return &Item{
		opts:     Options{Dispatch: dispatch, Modifiers: func(a *menubar.Activation) { a.Shift = true }},
		logger:   slog.Default(),
		handlers: make(map[menubar.ClickKind][]func(menubar.Activation)),
	}
}

func TestItem_MethodsMapToClickKinds(t *testing.T) {
	item := newTestItem(func(fn func()) { fn() })

	var got []menubar.ClickKind
	for _, kind := range []menubar.ClickKind{menubar.Click, menubar.RightClick, menubar.MiddleClick} {
		item.On(kind, func(a menubar.Activation) {
			got = append(got, kind)
			assert.True(t, a.Shift)
			require.NotNil(t, a.Bounds)
			assert.Equal(t, 40, a.Bounds.X)
		})
	}

	obj := itemObject{item: item}
	assert.Nil(t, obj.Activate(40, 2))
	assert.Nil(t, obj.ContextMenu(40, 2))
	assert.Nil(t, obj.SecondaryActivate(40, 2))
	assert.Nil(t, obj.Scroll(1, "vertical"))

	assert.Equal(t, []menubar.ClickKind{menubar.Click, menubar.RightClick, menubar.MiddleClick}, got)
}

func TestItem_ActivationIsDispatched(t *testing.T) {
	var queued []func()
	item := newTestItem(func(fn func()) { queued = append(queued, fn) })

	calls := 0
	item.On(menubar.Click, func(menubar.Activation) { calls++ })

	item.activate(menubar.Click, 5, 5)
	item.activate(menubar.DoubleClick, 5, 5) // no handler, not queued
	assert.Equal(t, 0, calls)
	require.Len(t, queued, 1)

	queued[0]()
	assert.Equal(t, 1, calls)
}

func TestItem_TooltipWithoutBus(t *testing.T) {
	item := newTestItem(nil)
	item.SetTooltip("hello")
	assert.Equal(t, ToolTip{Title: "hello"}, item.toolTip())
}
