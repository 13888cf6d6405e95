// Package compositor turns decoded video frames into a repeating fill
// pattern for the text renderer.
package compositor

import (
	"image"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
	"github.com/coreman2200/arcaluminis-marquee/internal/surface"
)

// Compositor owns the pattern surface. The surface is created on the first
// usable frame at that frame's display size and is never resized.
type Compositor struct {
	pm   *gg.Pixmap
	dc   *gg.Context
	view *image.RGBA // aliases pm's pixels
}

func New() *Compositor { return &Compositor{} }

// Size reports the pattern surface size, zero before the first frame.
func (c *Compositor) Size() (int, int) {
	if c.pm == nil {
		return 0, 0
	}
	return c.pm.Width(), c.pm.Height()
}

// Update paints f into the pattern surface stretched to canvasW x canvasH,
// clipped to the surface, and returns a fill that tiles the surface. ok is
// false when the frame was unusable and nothing changed.
func (c *Compositor) Update(f *frame.Frame, canvasW, canvasH int) (fill surface.Fill, ok bool) {
	if f == nil || f.Image == nil || f.DisplayWidth <= 0 || f.DisplayHeight <= 0 {
		return surface.Fill{}, false
	}
	if canvasW <= 0 || canvasH <= 0 {
		return surface.Fill{}, false
	}
	if c.pm == nil {
		c.init(f.DisplayWidth, f.DisplayHeight)
	}

	dst := image.Rect(0, 0, canvasW, canvasH)
	xdraw.BiLinear.Scale(c.view, dst, f.Image, f.Image.Bounds(), xdraw.Over, nil)

	w, h := c.Size()
	tile := gg.ImageBufFromImage(c.view)
	return surface.PatternFill(c.dc.CreateImagePattern(tile, 0, 0, w, h)), true
}

func (c *Compositor) init(w, h int) {
	c.pm = gg.NewPixmap(w, h)
	c.dc = gg.NewContext(w, h, gg.WithPixmap(c.pm))
	// The pixmap stores straight alpha and image.RGBA is premultiplied.
	// They agree for opaque frames; translucent ones come out slightly dark.
	c.view = &image.RGBA{
		Pix:    c.pm.Data(),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// Close releases the pattern surface.
func (c *Compositor) Close() error {
	if c.dc == nil {
		return nil
	}
	err := c.dc.Close()
	c.pm, c.dc, c.view = nil, nil, nil
	return err
}
