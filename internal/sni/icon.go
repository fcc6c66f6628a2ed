package sni

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:embed assets/IconTemplate.png
var defaultIcon []byte

// defaultIconKey caches the bundled icon.
const defaultIconKey = "bundled:IconTemplate.png"

// Pixmap is one icon image in the SNI wire format: ARGB32 in network byte order.
type Pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// PixmapFromImage converts img to an ARGB32 pixmap.
func PixmapFromImage(img image.Image) Pixmap {
	b := img.Bounds()
	data := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, c.A, c.R, c.G, c.B)
		}
	}
	return Pixmap{Width: int32(b.Dx()), Height: int32(b.Dy()), Data: data}
}

// DecodePixmap decodes a PNG image into a pixmap.
func DecodePixmap(r io.Reader) (Pixmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Pixmap{}, fmt.Errorf("failed to decode icon: %w", err)
	}
	return PixmapFromImage(img), nil
}

// IconCache keeps decoded icons keyed by path and modification time.
type IconCache struct {
	cache  *lru.Cache[string, Pixmap]
	logger *slog.Logger
}

// NewIconCache creates a cache holding up to size icons.
func NewIconCache(size int, logger *slog.Logger) (*IconCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, Pixmap](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create icon cache: %w", err)
	}
	return &IconCache{cache: cache, logger: logger}, nil
}

// Load returns the pixmap for path. An empty path loads the bundled icon.
func (c *IconCache) Load(path string) (Pixmap, error) {
	if path == "" {
		return c.load(defaultIconKey, func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(defaultIcon)), nil
		})
	}

	info, err := os.Stat(path)
	if err != nil {
		return Pixmap{}, fmt.Errorf("failed to stat icon: %w", err)
	}
	key := path + "@" + strconv.FormatInt(info.ModTime().UnixNano(), 10)

	return c.load(key, func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// Len returns the number of cached icons.
func (c *IconCache) Len() int {
	return c.cache.Len()
}

func (c *IconCache) load(key string, open func() (io.ReadCloser, error)) (Pixmap, error) {
	if p, ok := c.cache.Get(key); ok {
		return p, nil
	}

	r, err := open()
	if err != nil {
		return Pixmap{}, fmt.Errorf("failed to open icon: %w", err)
	}
	defer r.Close()

	p, err := DecodePixmap(r)
	if err != nil {
		return Pixmap{}, err
	}

	c.cache.Add(key, p)
	c.logger.Debug("icon decoded", "key", key, "width", p.Width, "height", p.Height)
	return p, nil
}
