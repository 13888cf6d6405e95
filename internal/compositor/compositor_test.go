package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
)

// split returns a w x h image, red on the left half and blue on the right.
func split(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if x >= w/2 {
				c = color.RGBA{0, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestUpdateIgnoresUnusableFrames(t *testing.T) {
	c := New()
	_, ok := c.Update(nil, 10, 10)
	assert.False(t, ok)

	_, ok = c.Update(frame.New(split(4, 4), 0, 4), 10, 10)
	assert.False(t, ok)

	closed := frame.New(split(4, 4), 4, 4)
	require.NoError(t, closed.Close())
	_, ok = c.Update(closed, 10, 10)
	assert.False(t, ok)

	w, h := c.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestUpdateStretchesToCanvasAndClips(t *testing.T) {
	c := New()
	defer c.Close()

	// Canvas twice as wide as the surface: only the left half of the
	// stretched frame lands on the surface, which is all red.
	fill, ok := c.Update(frame.New(split(40, 2), 40, 2), 80, 2)
	require.True(t, ok)
	require.True(t, fill.IsPattern())

	for x := 0; x <= 35; x++ {
		got := fill.Pattern.ColorAt(float64(x), 0)
		assert.InDelta(t, 1.0, got.R, 0.01, "x=%d", x)
		assert.InDelta(t, 0.0, got.B, 0.01, "x=%d", x)
	}
}

func TestUpdateSameSize(t *testing.T) {
	c := New()
	defer c.Close()

	fill, ok := c.Update(frame.New(split(40, 2), 40, 2), 40, 2)
	require.True(t, ok)

	red := fill.Pattern.ColorAt(5, 1)
	assert.InDelta(t, 1.0, red.R, 0.01)
	blue := fill.Pattern.ColorAt(35, 1)
	assert.InDelta(t, 1.0, blue.B, 0.01)
	assert.InDelta(t, 0.0, blue.R, 0.01)
}

func TestPatternTiles(t *testing.T) {
	c := New()
	defer c.Close()

	fill, ok := c.Update(frame.New(split(40, 2), 40, 2), 40, 2)
	require.True(t, ok)
	assert.Equal(t, fill.Pattern.ColorAt(5, 0), fill.Pattern.ColorAt(45, 2))
	assert.Equal(t, fill.Pattern.ColorAt(35, 1), fill.Pattern.ColorAt(75, 3))
}

func TestSurfaceIsNeverResized(t *testing.T) {
	c := New()
	defer c.Close()

	_, ok := c.Update(frame.New(split(40, 2), 40, 2), 40, 2)
	require.True(t, ok)
	_, ok = c.Update(frame.New(split(100, 50), 100, 50), 40, 2)
	require.True(t, ok)

	w, h := c.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 2, h)
}
