// Package present hands committed canvas frames from the render loop to
// slower consumers such as websocket viewers and an LED matrix.
package present

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Frame is one committed canvas image. Consumers must treat Image as
// read-only; it is shared between all of them.
type Frame struct {
	Seq       uint64
	Image     *image.RGBA
	Timestamp time.Time
}

// Consumer receives frames on the mailbox goroutine.
type Consumer interface {
	Name() string
	Consume(f *Frame) error
}

// Stats are lifetime counters of a mailbox.
type Stats struct {
	Published uint64 `json:"published"`
	Delivered uint64 `json:"delivered"`
	Drops     uint64 `json:"drops"`
	Errors    uint64 `json:"errors"`
}

// Mailbox is a single-slot, latest-frame-wins hand-off. Publish never
// blocks; a frame not yet picked up is overwritten and counted as a drop.
type Mailbox struct {
	log       zerolog.Logger
	consumers []Consumer

	mu     sync.Mutex
	cond   *sync.Cond
	frame  *Frame
	seq    uint64
	closed bool

	published atomic.Uint64
	delivered atomic.Uint64
	drops     atomic.Uint64
	errors    atomic.Uint64
}

func NewMailbox(log zerolog.Logger, consumers ...Consumer) *Mailbox {
	m := &Mailbox{log: log, consumers: consumers}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Publish stores f as the pending frame and assigns its sequence number.
func (m *Mailbox) Publish(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.frame != nil {
		m.drops.Add(1)
	}
	m.seq++
	f.Seq = m.seq
	m.frame = f
	m.published.Add(1)
	m.cond.Signal()
}

// next blocks until a frame is pending or the mailbox is stopped.
func (m *Mailbox) next() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.frame == nil && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return nil
	}
	f := m.frame
	m.frame = nil
	return f
}

// Run delivers frames to every consumer until ctx is done or Stop is
// called. Consumer errors are logged and counted.
func (m *Mailbox) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, m.Stop)
	defer stop()

	for {
		f := m.next()
		if f == nil {
			return ctx.Err()
		}
		for _, c := range m.consumers {
			if err := c.Consume(f); err != nil {
				m.errors.Add(1)
				m.log.Warn().Err(err).Str("consumer", c.Name()).Uint64("seq", f.Seq).Msg("present failed")
			}
		}
		m.delivered.Add(1)
	}
}

// Stop wakes Run and makes further Publish calls no-ops.
func (m *Mailbox) Stop() {
	m.mu.Lock()
	m.closed = true
	m.frame = nil
	m.cond.Broadcast()
	m.mu.Unlock()
}

func (m *Mailbox) Stats() Stats {
	return Stats{
		Published: m.published.Load(),
		Delivered: m.delivered.Load(),
		Drops:     m.drops.Load(),
		Errors:    m.errors.Load(),
	}
}
