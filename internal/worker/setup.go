package worker

import (
	"github.com/coreman2200/arcaluminis-marquee/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-marquee/internal/surface"
)

// setup binds c, measures the text once and announces the frame source.
// A repeated canvas rebinds and re-announces; the animation, the pattern
// fill and any scheduled tick carry over.
func (s *Session) setup(c *surface.Canvas) {
	repeated := s.dc != nil
	fill := surface.Solid(s.color)
	if repeated {
		fill = s.dc.Fill()
	}

	s.canvas = c
	s.dc = surface.NewContext(c)
	s.dc.SetFont(s.face)
	s.dc.SetFill(fill)
	s.textWidth = s.dc.MeasureText(s.anim.Text)
	if !repeated {
		s.anim.Y = s.baseline()
	}
	s.setups++

	ev := s.log.Info()
	d := diagnostics.New(diagnostics.Info, diagnostics.SetupDone, "canvas bound")
	if repeated {
		ev = s.log.Warn()
		d = diagnostics.New(diagnostics.Warn, diagnostics.SetupRepeated, "canvas rebound; animation kept")
		d.SuggestedFixes = []string{"send the canvas message once per session"}
	}
	ev.Int("width", c.Width()).Int("height", c.Height()).
		Float64("text_width", s.textWidth).Float64("baseline", s.anim.Y).
		Msg("canvas setup")
	s.report(d.With("width", c.Width()).With("height", c.Height()).With("text_width", s.textWidth))

	s.emit.Emit(Outbound{FrameSource: s.opts.FrameSource})
	s.report(diagnostics.New(diagnostics.Info, diagnostics.FrameSourceAnnounced, "frame source requested").
		With("framesource", s.opts.FrameSource))
}

// baseline is the configured y, or the y that centers the font's ascent
// and descent on the canvas.
func (s *Session) baseline() float64 {
	if s.opts.Baseline > 0 {
		return s.opts.Baseline
	}
	m := s.face.Metrics()
	return (float64(s.canvas.Height()) + m.Ascent - m.Descent) / 2
}
