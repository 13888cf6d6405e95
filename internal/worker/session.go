// Package worker runs one rendering session: it owns a canvas, handles the
// control protocol and animates bouncing text on a refresh-tied loop.
//
// A Session is driven by exactly one goroutine, either Run or a test
// calling Handle and Advance directly. None of its methods lock except
// Status.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-marquee/internal/clock"
	"github.com/coreman2200/arcaluminis-marquee/internal/compositor"
	"github.com/coreman2200/arcaluminis-marquee/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
	"github.com/coreman2200/arcaluminis-marquee/internal/surface"
)

type Session struct {
	id   string
	opts Options
	log  zerolog.Logger

	font  *text.FontSource
	face  text.Face
	color gg.RGBA

	canvas    *surface.Canvas
	dc        *surface.Context
	textWidth float64
	anim      Animation

	frames *clock.Queue
	token  clock.Handle
	comp   *compositor.Compositor

	emit   Emitter
	pub    Publisher
	report diagnostics.Reporter

	setups int
	ticks  uint64
	images uint64

	status atomic.Pointer[Status]
}

// NewSession loads the font and prepares an idle session. emit is required;
// pub may be nil when nobody watches the canvas.
func NewSession(opts Options, emit Emitter, pub Publisher, log zerolog.Logger) (*Session, error) {
	opts = opts.withDefaults()
	font, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	s := &Session{
		id:     id,
		opts:   opts,
		log:    log.With().Str("session", id).Logger(),
		font:   font,
		face:   font.Face(opts.FontSize),
		color:  gg.Hex(opts.Color),
		anim:   Animation{Text: opts.Text, Dir: Forward},
		frames: clock.NewQueue(),
		comp:   compositor.New(),
		emit:   emit,
		pub:    pub,
		report: diagnostics.Discard,
	}
	s.publishStatus()
	return s, nil
}

// SetReporter routes session diagnostics to r.
func (s *Session) SetReporter(r diagnostics.Reporter) {
	if r == nil {
		r = diagnostics.Discard
	}
	s.report = r
}

func (s *Session) ID() string { return s.id }

// Handle processes one control message to completion.
func (s *Session) Handle(msg Message) {
	switch msg.Kind() {
	case KindCanvas:
		s.setup(msg.Canvas)
	case KindPause:
		if s.dc == nil {
			s.ignored("pause")
			break
		}
		s.pause()
	case KindImage:
		s.updatePattern(msg.Image)
	default:
		s.resume()
	}
	s.publishStatus()
}

// Advance fires one display refresh and returns how many ticks ran.
func (s *Session) Advance(now time.Time) int {
	n := s.frames.Fire(now)
	if n > 0 {
		s.publishStatus()
	}
	return n
}

// Run serializes inbound messages and display refreshes until ctx is done
// or inbox is closed.
func (s *Session) Run(ctx context.Context, inbox <-chan Message, refresh <-chan time.Time) error {
	s.log.Info().Msg("session started")
	defer s.log.Info().Uint64("ticks", s.ticks).Msg("session stopped")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			s.Handle(msg)
		case now := <-refresh:
			s.Advance(now)
		}
	}
}

// pause cancels the outstanding tick, if any.
func (s *Session) pause() {
	if s.token == 0 {
		return
	}
	s.frames.Cancel(s.token)
	s.token = 0
	s.log.Debug().Float64("x", s.anim.X).Int("dir", int(s.anim.Dir)).Msg("paused")
}

// resume schedules the next tick, replacing any outstanding one.
func (s *Session) resume() {
	if s.dc == nil {
		s.ignored("resume")
		return
	}
	if s.token != 0 {
		s.frames.Cancel(s.token)
	}
	s.token = s.frames.Request(s.tick)
}

// updatePattern installs a fill derived from f. The frame is released
// before returning whether or not it was used.
func (s *Session) updatePattern(f *frame.Frame) {
	defer f.Close()
	if s.dc == nil {
		s.ignored("image")
		return
	}
	fill, ok := s.comp.Update(f, s.canvas.Width(), s.canvas.Height())
	if !ok {
		s.log.Debug().Str("trace_id", f.TraceID).
			Int("display_w", f.DisplayWidth).Int("display_h", f.DisplayHeight).
			Msg("unusable frame; ignored")
		return
	}
	s.dc.SetFill(fill)
	s.images++
	if s.images == 1 {
		w, h := s.comp.Size()
		s.log.Info().Int("pattern_w", w).Int("pattern_h", h).Msg("pattern fill installed")
		s.report(diagnostics.New(diagnostics.Info, diagnostics.PatternUpdated, "pattern fill installed").
			With("width", w).With("height", h))
	}
}

// ignored reports a message that arrived before the canvas.
func (s *Session) ignored(kind string) {
	s.log.Debug().Str("kind", kind).Msg("message before canvas; ignored")
	s.report(diagnostics.New(diagnostics.Info, diagnostics.MessageIgnored, kind+" before canvas").
		With("kind", kind))
}

// Close stops the loop and releases the font and pattern surface.
func (s *Session) Close() error {
	s.pause()
	s.publishStatus()
	if err := s.comp.Close(); err != nil {
		return err
	}
	return s.font.Close()
}
