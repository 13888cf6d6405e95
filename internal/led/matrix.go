// Package led mirrors the rendered canvas onto a physical LED matrix.
package led

import (
	"errors"
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/coreman2200/arcaluminis-marquee/internal/present"
)

var ErrClosed = errors.New("led: matrix closed")

// Matrix is a present.Consumer that downsamples each committed canvas to
// the matrix resolution and writes it through a Driver.
type Matrix struct {
	mu     sync.Mutex
	closed bool

	layout Layout
	drv    Driver
	power  Power
	small  *image.RGBA
	rgb    []byte
}

func NewMatrix(l Layout, drv Driver, p Power) *Matrix {
	return &Matrix{
		layout: l,
		drv:    drv,
		power:  p,
		small:  image.NewRGBA(image.Rect(0, 0, l.Width, l.Height)),
		rgb:    make([]byte, l.Count()*3),
	}
}

func (m *Matrix) Name() string { return "led" }

// Consume writes f to the driver. It fails with ErrClosed after Close.
func (m *Matrix) Consume(f *present.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	xdraw.ApproxBiLinear.Scale(m.small, m.small.Rect, f.Image, f.Image.Bounds(), xdraw.Src, nil)
	// Premultiplied values are what the LEDs should show: transparent is off.
	for y := 0; y < m.layout.Height; y++ {
		for x := 0; x < m.layout.Width; x++ {
			px := m.small.RGBAAt(x, y)
			i := m.layout.Index(x, y) * 3
			m.rgb[i], m.rgb[i+1], m.rgb[i+2] = px.R, px.G, px.B
		}
	}
	m.power.Apply(m.rgb)
	return m.drv.Write(m.rgb)
}

// Close waits for an in-flight Consume, then closes the driver once.
func (m *Matrix) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.drv.Close()
}
