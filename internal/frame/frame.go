// Package frame holds decoded video frames handed to the worker and the
// binary wire format the host uses to ship them.
package frame

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// Frame is one decoded video frame. It is transient: whoever receives it
// must Close it once the pixels have been consumed.
type Frame struct {
	// Image holds the decoded pixels. Its bounds are the coded size, which
	// may differ from the display size.
	Image image.Image
	// DisplayWidth and DisplayHeight are the intended presentation size.
	DisplayWidth  int
	DisplayHeight int
	// TraceID is a unique identifier for following a frame through logs.
	TraceID string
	// Timestamp is when the frame entered the process.
	Timestamp time.Time

	release func()
	closed  bool
}

// New wraps img as a frame with the given display size.
func New(img image.Image, displayWidth, displayHeight int) *Frame {
	return &Frame{
		Image:         img,
		DisplayWidth:  displayWidth,
		DisplayHeight: displayHeight,
		TraceID:       uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// SetRelease installs a hook run once on Close, e.g. to return a pooled
// buffer.
func (f *Frame) SetRelease(fn func()) { f.release = fn }

// Close releases the frame. The Image is unusable afterwards. Calling Close
// more than once is harmless.
func (f *Frame) Close() error {
	if f == nil || f.closed {
		return nil
	}
	f.closed = true
	f.Image = nil
	if f.release != nil {
		f.release()
		f.release = nil
	}
	return nil
}

// Closed reports whether Close has been called.
func (f *Frame) Closed() bool { return f.closed }
