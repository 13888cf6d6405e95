package worker

import (
	"time"

	"github.com/coreman2200/arcaluminis-marquee/internal/present"
)

type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Animation is the bouncing text state. It survives pauses and repeated
// canvas messages.
type Animation struct {
	Text string
	X, Y float64
	Dir  Direction
}

type State string

const (
	Paused  State = "paused"
	Running State = "running"
)

// State is RUNNING while a tick is scheduled.
func (s *Session) State() State {
	if s.token != 0 {
		return Running
	}
	return Paused
}

func (s *Session) Animation() Animation { return s.anim }
func (s *Session) TextWidth() float64   { return s.textWidth }

// Pending is the number of scheduled ticks. It is 1 while running.
func (s *Session) Pending() int { return s.frames.Pending() }

// tick draws one frame and schedules the next.
func (s *Session) tick(now time.Time) {
	s.dc.Clear()

	s.anim.X += float64(s.anim.Dir)
	if s.anim.X+s.textWidth > float64(s.canvas.Width()) || s.anim.X < 0 {
		s.anim.Dir = -s.anim.Dir
	}

	s.dc.FillText(s.anim.Text, s.anim.X, s.anim.Y)

	s.token = s.frames.Request(s.tick)
	s.ticks++

	if s.pub != nil {
		s.pub.Publish(&present.Frame{Image: s.canvas.Snapshot(), Timestamp: now})
	}
}
