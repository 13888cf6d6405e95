package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// glyphPad widens the text box to catch antialiasing and side bearings.
const glyphPad = 2

// Context is a drawing context bound to one canvas. It carries the current
// font face and fill, like a 2D canvas context does.
type Context struct {
	canvas *Canvas
	face   text.Face
	fill   Fill
	mask   *image.Alpha
}

// NewContext binds a context to c with a black solid fill and no font.
func NewContext(c *Canvas) *Context {
	return &Context{
		canvas: c,
		fill:   Solid(gg.Black),
		mask:   image.NewAlpha(c.Bounds()),
	}
}

func (dc *Context) Canvas() *Canvas { return dc.canvas }

func (dc *Context) SetFont(face text.Face) { dc.face = face }
func (dc *Context) Font() text.Face        { return dc.face }

func (dc *Context) SetFill(f Fill) { dc.fill = f }
func (dc *Context) Fill() Fill     { return dc.fill }

// Clear erases the whole canvas.
func (dc *Context) Clear() { dc.canvas.Clear() }

// MeasureText returns the advance width of s in the current font, or 0
// when no font is set.
func (dc *Context) MeasureText(s string) float64 {
	if dc.face == nil {
		return 0
	}
	return dc.face.Advance(s)
}

// FillText paints s with its baseline origin at (x, y) using the current
// fill. Glyph coverage goes into a scratch mask which is then composited
// over the canvas with the fill as source, so pattern fills sample the
// pattern at canvas coordinates.
func (dc *Context) FillText(s string, x, y float64) {
	if s == "" || dc.face == nil {
		return
	}
	m := dc.face.Metrics()
	box := image.Rect(
		int(math.Floor(x))-glyphPad,
		int(math.Floor(y-m.Ascent))-glyphPad,
		int(math.Ceil(x+dc.face.Advance(s)))+glyphPad,
		int(math.Ceil(y+m.Descent))+glyphPad,
	).Intersect(dc.mask.Rect)
	if box.Empty() {
		return
	}

	draw.Draw(dc.mask, box, image.Transparent, image.Point{}, draw.Src)
	text.Draw(dc.mask, s, dc.face, x, y, color.White)
	draw.DrawMask(dc.canvas.img, box, dc.fill.image(), box.Min, dc.mask, box.Min, draw.Over)
}
