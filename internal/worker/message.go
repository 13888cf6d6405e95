package worker

import (
	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
	"github.com/coreman2200/arcaluminis-marquee/internal/present"
	"github.com/coreman2200/arcaluminis-marquee/internal/surface"
)

// Message is one inbound control message. The fields are checked in
// order: Canvas, Pause, Image. A message with none of them set resumes
// the render loop.
type Message struct {
	Canvas *surface.Canvas
	Pause  bool
	Image  *frame.Frame
}

type Kind string

const (
	KindCanvas Kind = "canvas"
	KindPause  Kind = "pause"
	KindImage  Kind = "image"
	KindResume Kind = "resume"
)

// Kind reports which handler a message dispatches to.
func (m Message) Kind() Kind {
	switch {
	case m.Canvas != nil:
		return KindCanvas
	case m.Pause:
		return KindPause
	case m.Image != nil:
		return KindImage
	default:
		return KindResume
	}
}

// Outbound is the one message the worker sends to its host, once per
// canvas setup.
type Outbound struct {
	FrameSource string `json:"framesource"`
}

// Emitter delivers outbound messages. Emit must not block and gets no
// acknowledgment.
type Emitter interface {
	Emit(Outbound)
}

// Publisher receives a copy of the canvas after every render tick.
type Publisher interface {
	Publish(*present.Frame)
}

type EmitterFunc func(Outbound)

func (f EmitterFunc) Emit(o Outbound) { f(o) }
