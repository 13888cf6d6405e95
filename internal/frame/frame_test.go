package frame

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestEncodeDecode(t *testing.T) {
	src := checker(4, 3)
	msg := Encode(src, 8, 6)
	require.Len(t, msg, HeaderSize+4*3*4)

	f, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, 8, f.DisplayWidth)
	assert.Equal(t, 6, f.DisplayHeight)
	assert.NotEmpty(t, f.TraceID)
	assert.Equal(t, image.Rect(0, 0, 4, 3), f.Image.Bounds())
	assert.Equal(t, src.At(1, 0), f.Image.At(1, 0))
	assert.Equal(t, src.At(2, 2), f.Image.At(2, 2))
}

func TestEncodeSubImage(t *testing.T) {
	src := checker(6, 6).SubImage(image.Rect(2, 2, 5, 4)).(*image.RGBA)
	f, err := Decode(Encode(src, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, src.At(2, 2), f.Image.At(0, 0))
	assert.Equal(t, src.At(4, 3), f.Image.At(2, 1))
}

func TestDecodeRejects(t *testing.T) {
	good := Encode(checker(2, 2), 2, 2)

	_, err := Decode(good[:10])
	assert.ErrorIs(t, err, ErrShortFrame)

	bad := append([]byte(nil), good...)
	copy(bad, "NOPE")
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Decode(good[:len(good)-1])
	assert.ErrorIs(t, err, ErrSizeMismatch)

	zero := append([]byte(nil), good...)
	binary.BigEndian.PutUint32(zero[4:], 0)
	_, err = Decode(zero)
	assert.ErrorIs(t, err, ErrBadDimensions)

	huge := append([]byte(nil), good...)
	binary.BigEndian.PutUint32(huge[12:], MaxDimension+1)
	_, err = Decode(huge)
	assert.ErrorIs(t, err, ErrBadDimensions)
}

func TestCloseIsIdempotent(t *testing.T) {
	released := 0
	f := New(checker(1, 1), 1, 1)
	f.SetRelease(func() { released++ })

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.True(t, f.Closed())
	assert.Nil(t, f.Image)
	assert.Equal(t, 1, released)

	var nilFrame *Frame
	assert.NoError(t, nilFrame.Close())
}
