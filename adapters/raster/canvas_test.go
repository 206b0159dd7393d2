package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitpad/domain/sketch"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewCanvasRejectsInvalidSize(t *testing.T) {
	_, err := NewCanvas(0, 10)
	assert.Error(t, err)
}

func TestNewCanvasIsBlank(t *testing.T) {
	c := newTestCanvas(t)
	assert.True(t, c.IsBlank())
}

func TestPadDrawsOntoCanvas(t *testing.T) {
	c := newTestCanvas(t)
	pad := sketch.NewPad(c)

	_, err := pad.Replay([]sketch.Event{
		{Type: sketch.EventStart},
		{Type: sketch.EventMove, X: 10, Y: 10},
		{Type: sketch.EventMove, X: 20, Y: 20},
		{Type: sketch.EventMove, X: 30, Y: 10},
		{Type: sketch.EventEnd},
	})
	require.NoError(t, err)

	assert.False(t, c.IsBlank())
	_, _, _, a := c.Image().At(15, 15).RGBA()
	assert.NotZero(t, a, "segment midpoint should be inked")
	_, _, _, a = c.Image().At(90, 90).RGBA()
	assert.Zero(t, a, "far corner stays untouched")
}

func TestFirstMoveLeavesNoMark(t *testing.T) {
	c := newTestCanvas(t)
	pad := sketch.NewPad(c)

	pad.DragStart()
	require.NoError(t, pad.DragMove(sketch.Point{X: 50, Y: 50}))
	pad.DragEnd()

	assert.True(t, c.IsBlank())
}

func TestClearIsIdempotent(t *testing.T) {
	c := newTestCanvas(t)
	pad := sketch.NewPad(c)

	pad.Clear()
	assert.True(t, c.IsBlank(), "clearing a blank canvas leaves it blank")

	pad.DragStart()
	require.NoError(t, pad.DragMove(sketch.Point{X: 5, Y: 50}))
	require.NoError(t, pad.DragMove(sketch.Point{X: 95, Y: 50}))
	require.False(t, c.IsBlank())

	pad.Clear()
	assert.True(t, c.IsBlank())
	pad.Clear()
	assert.True(t, c.IsBlank())
}

func TestSnapshot(t *testing.T) {
	c := newTestCanvas(t)
	pad := sketch.NewPad(c)
	pad.DragStart()
	require.NoError(t, pad.DragMove(sketch.Point{X: 20, Y: 20}))
	require.NoError(t, pad.DragMove(sketch.Point{X: 80, Y: 80}))

	full, err := c.Snapshot(0)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(full))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	small, err := c.Snapshot(28)
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	assert.Equal(t, 28, img.Bounds().Dx())
	assert.Equal(t, 28, img.Bounds().Dy())
}
