// Package surface provides the off-screen canvas the worker draws into and
// a small stateful drawing context on top of it.
package surface

import (
	"errors"
	"fmt"
	"image"
)

// MaxCanvasSide bounds either canvas dimension.
const MaxCanvasSide = 16384

var ErrCanvasSize = errors.New("surface: invalid canvas size")

// Canvas is an off-screen RGBA surface with a fixed integer size.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas of w by h pixels.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 || w > MaxCanvasSide || h > MaxCanvasSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasSize, w, h)
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (c *Canvas) Width() int              { return c.img.Rect.Dx() }
func (c *Canvas) Height() int             { return c.img.Rect.Dy() }
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// Image exposes the backing pixels. Callers outside the owning goroutine
// should use Snapshot instead.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(c.img.Pix)),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
	copy(out.Pix, c.img.Pix)
	return out
}

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() { clear(c.img.Pix) }
