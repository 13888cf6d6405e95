package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Fill is the paint used for text: a solid color, or a pattern when
// Pattern is set.
type Fill struct {
	Color   gg.RGBA
	Pattern gg.Pattern
}

// Solid returns a solid color fill.
func Solid(c gg.RGBA) Fill { return Fill{Color: c} }

// PatternFill returns a fill sampled from p in canvas coordinates.
func PatternFill(p gg.Pattern) Fill { return Fill{Pattern: p} }

func (f Fill) IsPattern() bool { return f.Pattern != nil }

// image returns an unbounded source image for compositing.
func (f Fill) image() image.Image {
	if f.Pattern != nil {
		return patternImage{f.Pattern}
	}
	return image.NewUniform(f.Color.Color())
}

// patternImage adapts a gg.Pattern to image.Image. Like image.Uniform it
// has effectively infinite bounds.
type patternImage struct {
	p gg.Pattern
}

func (patternImage) ColorModel() color.Model { return color.NRGBAModel }

func (patternImage) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (pi patternImage) At(x, y int) color.Color {
	return pi.p.ColorAt(float64(x), float64(y)).Color()
}
