package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// Wire layout of a binary frame message:
//
//	0  magic "MQF1"
//	4  display width   u32 BE
//	8  display height  u32 BE
//	12 coded width     u32 BE
//	16 coded height    u32 BE
//	20 coded width * coded height * 4 bytes of RGBA
const (
	Magic        = "MQF1"
	HeaderSize   = 20
	MaxDimension = 16384
)

var (
	ErrShortFrame    = errors.New("frame: message shorter than header")
	ErrBadMagic      = errors.New("frame: bad magic")
	ErrBadDimensions = errors.New("frame: dimensions out of range")
	ErrSizeMismatch  = errors.New("frame: pixel payload does not match coded size")
)

// Decode parses a binary frame message. The returned frame's image aliases
// data; the caller must not reuse data until the frame is closed.
func Decode(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, ErrShortFrame
	}
	if string(data[:4]) != Magic {
		return nil, ErrBadMagic
	}
	dw := int(binary.BigEndian.Uint32(data[4:8]))
	dh := int(binary.BigEndian.Uint32(data[8:12]))
	cw := int(binary.BigEndian.Uint32(data[12:16]))
	ch := int(binary.BigEndian.Uint32(data[16:20]))
	for _, v := range [...]int{dw, dh, cw, ch} {
		if v <= 0 || v > MaxDimension {
			return nil, fmt.Errorf("%w: %dx%d display, %dx%d coded", ErrBadDimensions, dw, dh, cw, ch)
		}
	}
	pix := data[HeaderSize:]
	if len(pix) != cw*ch*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(pix), cw*ch*4)
	}
	img := &image.RGBA{
		Pix:    pix,
		Stride: cw * 4,
		Rect:   image.Rect(0, 0, cw, ch),
	}
	return New(img, dw, dh), nil
}

// Encode builds a binary frame message from img with the given display size.
func Encode(img *image.RGBA, displayWidth, displayHeight int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, HeaderSize+w*h*4)
	copy(out, Magic)
	binary.BigEndian.PutUint32(out[4:], uint32(displayWidth))
	binary.BigEndian.PutUint32(out[8:], uint32(displayHeight))
	binary.BigEndian.PutUint32(out[12:], uint32(w))
	binary.BigEndian.PutUint32(out[16:], uint32(h))
	dst := out[HeaderSize:]
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(dst[y*w*4:(y+1)*w*4], row[:w*4])
	}
	return out
}
