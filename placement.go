package workflow

import "fmt"

// DropEvent is what the canvas reports when a palette item is released.
// ClientX and ClientY are absolute pointer coordinates.
type DropEvent struct {
	ComponentKey string  `json:"componentKey"`
	ClientX      float64 `json:"clientX"`
	ClientY      float64 `json:"clientY"`
}

// DropOrigin reports the top-left corner of the drawable surface at drop
// time, in the same coordinate space as the pointer.
type DropOrigin interface {
	DropOrigin() Position
}

// DropOriginFunc adapts a function to DropOrigin.
type DropOriginFunc func() Position

// DropOrigin calls f.
func (f DropOriginFunc) DropOrigin() Position { return f() }

// FixedOrigin is a DropOrigin that never moves.
type FixedOrigin Position

// DropOrigin returns o.
func (o FixedOrigin) DropOrigin() Position { return Position(o) }

// Place turns a drop into a node. The key must resolve in reg; the position
// is made canvas-relative by subtracting origin. A nil reg knows no keys.
func Place(reg Registry, ids *IDGenerator, ev DropEvent, origin Position) (Node, error) {
	if ev.ComponentKey == "" {
		return Node{}, fmt.Errorf("%w: empty key", ErrUnknownComponent)
	}
	d, ok := lookup(reg, ev.ComponentKey)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownComponent, ev.ComponentKey)
	}
	return Node{
		ID:           ids.NodeID(ev.ComponentKey),
		ComponentKey: ev.ComponentKey,
		Position: Position{
			X: ev.ClientX - origin.X,
			Y: ev.ClientY - origin.Y,
		},
		Resolved:   true,
		Descriptor: d,
	}, nil
}
