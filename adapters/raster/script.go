package raster

import (
	"fmt"

	"digitpad/domain/sketch"
)

// RenderScript replays a recorded script on a fresh canvas and returns the
// PNG snapshot at the given model input size (0 keeps full size). Scripts
// without dimensions use the fallback width and height.
func RenderScript(script *sketch.Script, width, height int, size uint) ([]byte, error) {
	if script.Width > 0 {
		width = script.Width
	}
	if script.Height > 0 {
		height = script.Height
	}

	canvas, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	if _, err := sketch.NewPad(canvas).Replay(script.Events); err != nil {
		return nil, fmt.Errorf("replay %s: %w", script.Name, err)
	}
	return canvas.Snapshot(size)
}
