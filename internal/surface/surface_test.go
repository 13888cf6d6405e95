package surface

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func goFace(t *testing.T, size float64) text.Face {
	t.Helper()
	src, err := text.NewFontSource(goregular.TTF)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src.Face(size)
}

// halves is red left of x=50 and blue from there on.
type halves struct{}

func (halves) ColorAt(x, _ float64) gg.RGBA {
	if x < 50 {
		return gg.RGB(1, 0, 0)
	}
	return gg.RGB(0, 0, 1)
}

func TestNewCanvasRejectsBadSizes(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {MaxCanvasSide + 1, 1}} {
		_, err := NewCanvas(sz[0], sz[1])
		assert.ErrorIs(t, err, ErrCanvasSize, "%v", sz)
	}
	c, err := NewCanvas(800, 100)
	require.NoError(t, err)
	assert.Equal(t, 800, c.Width())
	assert.Equal(t, 100, c.Height())
}

func TestSnapshotIsACopy(t *testing.T) {
	c, err := NewCanvas(4, 4)
	require.NoError(t, err)
	snap := c.Snapshot()
	c.Image().Pix[0] = 200
	assert.Equal(t, uint8(0), snap.Pix[0])

	c.Clear()
	assert.Equal(t, uint8(0), c.Image().Pix[0])
}

func TestMeasureTextWithoutFont(t *testing.T) {
	c, _ := NewCanvas(10, 10)
	dc := NewContext(c)
	assert.Zero(t, dc.MeasureText("hello"))
	dc.FillText("hello", 0, 5) // no font: nothing drawn, no panic
	assert.Equal(t, 0, countInk(c))
}

func TestFillTextSolid(t *testing.T) {
	c, err := NewCanvas(200, 80)
	require.NoError(t, err)
	dc := NewContext(c)
	dc.SetFont(goFace(t, 48))
	dc.SetFill(Solid(gg.RGB(1, 0, 0)))

	w := dc.MeasureText("HHH")
	require.Greater(t, w, 0.0)

	dc.FillText("HHH", 10, 60)
	require.Greater(t, countInk(c), 0)

	img := c.Image()
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			px := img.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			assert.Zero(t, px.G)
			assert.Zero(t, px.B)
			assert.GreaterOrEqual(t, x, 10-glyphPad)
			assert.LessOrEqual(t, float64(x), 10+w+glyphPad)
		}
	}
}

func TestFillTextPatternSamplesCanvasCoordinates(t *testing.T) {
	c, err := NewCanvas(120, 80)
	require.NoError(t, err)
	dc := NewContext(c)
	dc.SetFont(goFace(t, 48))
	dc.SetFill(PatternFill(halves{}))
	require.True(t, dc.Fill().IsPattern())

	dc.FillText("HHHH", 0, 60)

	img := c.Image()
	var left, right int
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			px := img.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			if x < 50 {
				assert.Zero(t, px.B, "x=%d", x)
				left++
			} else {
				assert.Zero(t, px.R, "x=%d", x)
				right++
			}
		}
	}
	assert.Greater(t, left, 0)
	assert.Greater(t, right, 0)
}

func countInk(c *Canvas) int {
	n := 0
	img := c.Image()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}
