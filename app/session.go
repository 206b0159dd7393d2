package app

import (
	"sync"

	"digitpad/adapters/raster"
	"digitpad/domain/core"
	"digitpad/domain/prediction"
	"digitpad/domain/sketch"
)

// Session is the interaction state of one page view: the sketch pad, its
// canvas and the result table. All methods are safe for concurrent use.
type Session struct {
	ID core.SessionID

	mu        sync.Mutex
	canvas    *raster.Canvas
	pad       *sketch.Pad
	table     prediction.Table
	seq       prediction.Sequencer
	inputSize uint
}

func newSession(id core.SessionID, width, height int, inputSize uint) (*Session, error) {
	canvas, err := raster.NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		canvas:    canvas,
		pad:       sketch.NewPad(canvas),
		inputSize: inputSize,
	}, nil
}

// Apply replays pointer events on the pad and returns how many were applied.
func (s *Session) Apply(events []sketch.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pad.Replay(events)
}

// Clear wipes the canvas.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pad.Clear()
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pad.Dragging()
}

// IsBlank reports whether nothing is drawn.
func (s *Session) IsBlank() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.IsBlank()
}

// PNG encodes the canvas at full size.
func (s *Session) PNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Snapshot(0)
}

// ModelInput encodes the canvas at the model input size.
func (s *Session) ModelInput() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Snapshot(s.inputSize)
}

// Rows returns the current result table rows.
func (s *Session) Rows() []prediction.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Rows()
}

// Size returns the canvas dimensions.
func (s *Session) Size() (width, height int) {
	return s.canvas.Width(), s.canvas.Height()
}

// applyResult replaces the table rows if ticket is still the latest request
// and returns the rows it rendered. Stale tickets leave the table alone.
func (s *Session) applyResult(ticket uint64, result prediction.Result) ([]prediction.Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(ticket) {
		return nil, false, nil
	}
	if err := s.table.Replace(result); err != nil {
		return nil, false, err
	}
	return s.table.Rows(), true, nil
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Close()
}
