package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"github.com/nfnt/resize"

	"digitpad/domain/sketch"
)

// Canvas is a sketch.Surface backed by a software gg context. It starts
// fully transparent, matching an untouched HTML canvas.
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
}

var _ sketch.Surface = (*Canvas)(nil)

// NewCanvas allocates a transparent canvas of the given size.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.Clear()
	return &Canvas{dc: dc, width: width, height: height}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) BeginPath() { c.dc.ClearPath() }

func (c *Canvas) MoveTo(p sketch.Point) { c.dc.MoveTo(p.X, p.Y) }

func (c *Canvas) LineTo(p sketch.Point) { c.dc.LineTo(p.X, p.Y) }

// Stroke paints the current path with style. gg drops the path afterwards.
func (c *Canvas) Stroke(style sketch.Style) error {
	c.dc.SetLineWidth(style.Width)
	c.dc.SetLineCap(lineCap(style.Cap))
	c.dc.SetLineJoin(lineJoin(style.Join))
	c.dc.SetColor(style.Color)
	return c.dc.Stroke()
}

func (c *Canvas) ClosePath() { c.dc.ClearPath() }

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	c.dc.ClearPath()
	c.dc.Clear()
}

// Image returns a copy of the current pixels.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// IsBlank reports whether no pixel has any coverage.
func (c *Canvas) IsBlank() bool {
	img := c.dc.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return false
			}
		}
	}
	return true
}

// EncodePNG writes the canvas at full size.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Snapshot encodes the canvas as PNG. A non-zero size downsamples it to a
// size x size square first, the shape the model expects.
func (c *Canvas) Snapshot(size uint) ([]byte, error) {
	var buf bytes.Buffer
	if size == 0 {
		if err := c.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("encode canvas: %w", err)
		}
		return buf.Bytes(), nil
	}

	small := resize.Resize(size, size, c.dc.Image(), resize.Bilinear)
	if err := png.Encode(&buf, small); err != nil {
		return nil, fmt.Errorf("encode %dx%d snapshot: %w", size, size, err)
	}
	return buf.Bytes(), nil
}

// Close releases renderer resources.
func (c *Canvas) Close() error {
	return c.dc.Close()
}

func lineCap(cap sketch.LineCap) gg.LineCap {
	switch cap {
	case sketch.CapRound:
		return gg.LineCapRound
	case sketch.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func lineJoin(join sketch.LineJoin) gg.LineJoin {
	switch join {
	case sketch.JoinRound:
		return gg.LineJoinRound
	case sketch.JoinBevel:
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}
