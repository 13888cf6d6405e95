package main

import (
	"image"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

// synth draws stand-in video frames: a circle sweeping across a slowly
// cycling background.
type synth struct {
	dc   *gg.Context
	w, h int
}

func newSynth(w, h int) *synth {
	return &synth{dc: gg.NewContext(w, h), w: w, h: h}
}

// frame renders frame number n.
func (s *synth) frame(n int) *image.RGBA {
	hue := float64(n * 3)
	s.dc.ClearWithColor(gg.HSL(hue, 0.7, 0.45))
	x := float64(s.w) * (0.5 + 0.4*math.Sin(float64(n)/15))
	s.dc.SetColor(gg.HSL(hue+180, 0.9, 0.55).Color())
	s.dc.DrawCircle(x, float64(s.h)/2, float64(s.h)/3)
	_ = s.dc.Fill()
	return toRGBA(s.dc.Image())
}

func (s *synth) Close() error { return s.dc.Close() }

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Rect, img, img.Bounds().Min, draw.Src)
	return out
}
