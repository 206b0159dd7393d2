package sketch

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrUnknownEvent is returned by Pad.Apply for an unrecognized event type.
var ErrUnknownEvent = errors.New("unknown pointer event")

// Point is a position in canvas-local (offset) coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Cursor is the last drawn point of the current gesture. The zero value is
// unset, meaning the next move starts a new segment.
type Cursor struct {
	Point
	Set bool
}

// Unset clears the cursor.
func (c *Cursor) Unset() { *c = Cursor{} }

// MoveTo records p as the last drawn point.
func (c *Cursor) MoveTo(p Point) { *c = Cursor{Point: p, Set: true} }

// LineCap and LineJoin mirror the canvas stroke settings.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Style is the fixed stroke style applied to every segment.
type Style struct {
	Cap   LineCap
	Join  LineJoin
	Width float64
	Color color.Color
}

// DefaultStyle is round caps and joins, width 5, black.
func DefaultStyle() Style {
	return Style{
		Cap:   CapRound,
		Join:  JoinRound,
		Width: 5,
		Color: color.Black,
	}
}

// EventType names a pointer event delivered to the pad.
type EventType string

const (
	EventStart EventType = "start" // pointer pressed on the canvas
	EventMove  EventType = "move"  // pointer moved over the canvas
	EventEnd   EventType = "end"   // pointer released
	EventOut   EventType = "out"   // pointer left the canvas bounds
)

// Event is one pointer event. X and Y are only meaningful for moves.
type Event struct {
	Type EventType `json:"type" yaml:"type"`
	X    float64   `json:"x" yaml:"x"`
	Y    float64   `json:"y" yaml:"y"`
}

func (e Event) String() string {
	if e.Type == EventMove {
		return fmt.Sprintf("%s(%g,%g)", e.Type, e.X, e.Y)
	}
	return string(e.Type)
}

// Surface is the drawing context the pad renders onto.
type Surface interface {
	BeginPath()
	MoveTo(p Point)
	LineTo(p Point)
	Stroke(style Style) error
	ClosePath()
	Clear()
}
