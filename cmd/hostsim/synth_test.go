package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
)

func TestSynthFramesDecode(t *testing.T) {
	s := newSynth(32, 18)
	defer s.Close()

	a := s.frame(1)
	require.Equal(t, 32, a.Rect.Dx())
	require.Equal(t, 18, a.Rect.Dy())
	assert.Equal(t, uint8(255), a.RGBAAt(0, 0).A, "background is opaque")

	f, err := frame.Decode(frame.Encode(a, 64, 36))
	require.NoError(t, err)
	assert.Equal(t, 64, f.DisplayWidth)
	assert.Equal(t, a.At(3, 4), f.Image.At(3, 4))

	b := s.frame(40)
	assert.NotEqual(t, a.Pix, b.Pix, "frames change over time")
}
