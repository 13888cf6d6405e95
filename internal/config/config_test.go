package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Text = "marquee"
	c.Driver = "spi"
	c.Matrix = Matrix{Width: 16, Height: 16}

	require.NoError(t, Save(path, c))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestMergeOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text: hi\nmatrix:\n  width: 8\n  height: 4\npower:\n  budget_ma: 2000\nlimits:\n  max_side: 1024\n"), 0644))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, file.FontSize, "Load returns only what the file says")

	base := Default()
	base.FrameSource = "screen"
	c := Merge(base, file)
	assert.Equal(t, "hi", c.Text)
	assert.Equal(t, Matrix{Width: 8, Height: 4}, c.Matrix)
	assert.Equal(t, 2000.0, c.Power.BudgetMA)
	assert.Equal(t, 0.85, c.Power.WhiteCap)
	assert.Equal(t, Limits{MaxSide: 1024, MaxMessageBytes: 16 << 20}, c.Limits)
	assert.Equal(t, 48.0, c.FontSize)
	assert.Equal(t, "screen", c.FrameSource)
	assert.Equal(t, "Hello, World!", base.Text, "base untouched")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
