package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Strip drives a periph display.Drawer that is one pixel high, such as an
// nrzled chain or the console screen.
type Strip struct {
	mu    sync.Mutex
	d     display.Drawer
	count int
	img   *image.NRGBA
}

// NewStrip wraps d for count pixels.
func NewStrip(d display.Drawer, count int) *Strip {
	return &Strip{d: d, count: count, img: image.NewNRGBA(image.Rect(0, 0, count, 1))}
}

// OpenSPI initializes the host and opens an NRZ LED chain (WS2812 style)
// on the named SPI port; "" picks the first one.
func OpenSPI(dev string, count int, freq physic.Frequency) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	s, err := NewNRZ(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewNRZ drives an nrzled chain over an already open SPI port.
func NewNRZ(p spi.Port, count int, freq physic.Frequency) (*Strip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq <= 0 {
		freq = 2500 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: count, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return NewStrip(d, count), nil
}

// NewConsole prints the strip to the terminal.
func NewConsole(count int) *Strip {
	return NewStrip(screen.New(count), count)
}

func (s *Strip) Write(rgb []byte) error {
	if len(rgb) != s.count*3 {
		return fmt.Errorf("led: got %d bytes, want %d", len(rgb), s.count*3)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.count; i++ {
		s.img.SetNRGBA(i, 0, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255})
	}
	return s.d.Draw(s.d.Bounds(), s.img, image.Point{})
}

// Close blanks the strip.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Halt()
}

func (s *Strip) String() string { return s.d.String() }

// Sim keeps the last frame in memory instead of lighting anything.
type Sim struct {
	mu     sync.Mutex
	frames uint64
	last   []byte
}

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	s.frames++
	s.last = append(s.last[:0], rgb...)
	s.mu.Unlock()
	return nil
}

func (s *Sim) Close() error { return nil }

// Last returns a copy of the most recent frame and the frame count.
func (s *Sim) Last() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...), s.frames
}
