package sketch

import (
	"fmt"
)

// Pad tracks drag gestures and renders connected segments onto a Surface.
// A Pad is not safe for concurrent use; callers serialize access.
type Pad struct {
	surface  Surface
	style    Style
	dragging bool
	last     Cursor
}

// NewPad returns a pad drawing onto surface with DefaultStyle.
func NewPad(surface Surface) *Pad {
	return &Pad{surface: surface, style: DefaultStyle()}
}

// Dragging reports whether a gesture is in progress.
func (p *Pad) Dragging() bool { return p.dragging }

// Cursor returns the last drawn point of the current gesture.
func (p *Pad) Cursor() Cursor { return p.last }

// DragStart begins a new path.
func (p *Pad) DragStart() {
	p.surface.BeginPath()
	p.dragging = true
}

// DragMove draws from the last point to pt. The first move of a gesture only
// positions the pen. Moves outside a gesture are ignored.
func (p *Pad) DragMove(pt Point) error {
	if !p.dragging {
		return nil
	}

	if !p.last.Set {
		p.surface.MoveTo(pt)
	} else {
		p.surface.MoveTo(p.last.Point)
		p.surface.LineTo(pt)
		if err := p.surface.Stroke(p.style); err != nil {
			return fmt.Errorf("stroke to (%g,%g): %w", pt.X, pt.Y, err)
		}
	}

	p.last.MoveTo(pt)
	return nil
}

// DragEnd closes the path and forgets the cursor.
func (p *Pad) DragEnd() {
	p.surface.ClosePath()
	p.dragging = false
	p.last.Unset()
}

// Clear wipes the surface. It does not touch gesture state.
func (p *Pad) Clear() {
	p.surface.Clear()
}

// Apply dispatches one pointer event.
func (p *Pad) Apply(e Event) error {
	switch e.Type {
	case EventStart:
		p.DragStart()
	case EventMove:
		return p.DragMove(Point{X: e.X, Y: e.Y})
	case EventEnd, EventOut:
		p.DragEnd()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}

// Replay applies events in order and stops at the first failure, returning
// the number of events applied.
func (p *Pad) Replay(events []Event) (int, error) {
	for i, e := range events {
		if err := p.Apply(e); err != nil {
			return i, fmt.Errorf("event %d (%s): %w", i, e, err)
		}
	}
	return len(events), nil
}
