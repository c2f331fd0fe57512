package reorder

import (
	"errors"
	"math"
)

// ActivationDistance is how far, in pixels, the pointer must travel before a
// press becomes a drag. Shorter gestures are plain clicks.
const ActivationDistance = 6.0

var ErrDragActive = errors.New("a drag is already in progress")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Drop is the outcome of a completed drag: the list it happened in and the
// identities of the dragged item and of the item it was released over.
type Drop struct {
	Scope    string
	ActiveID string
	OverID   string
}

// Drag tracks a single pointer gesture. Only one gesture may exist at a time,
// mirroring pointer capture in the browser. The zero value is ready to use.
type Drag struct {
	scope   string
	id      string
	origin  Point
	pressed bool
	active  bool
}

// Begin records a press on the handle of item id inside list scope.
func (d *Drag) Begin(scope, id string, at Point) error {
	if d.pressed {
		return ErrDragActive
	}
	d.scope, d.id, d.origin = scope, id, at
	d.pressed = true
	d.active = false
	return nil
}

// MoveTo reports whether the gesture is an active drag after the pointer
// moved to p.
func (d *Drag) MoveTo(p Point) bool {
	if !d.pressed {
		return false
	}
	if !d.active && d.origin.distance(p) >= ActivationDistance {
		d.active = true
	}
	return d.active
}

// Release ends the gesture. ok is false when the press never turned into a
// drag, when it was released outside any target, or over the dragged item.
func (d *Drag) Release(overID string) (Drop, bool) {
	drop := Drop{Scope: d.scope, ActiveID: d.id, OverID: overID}
	active := d.active
	d.Cancel()
	if !active || overID == "" || overID == drop.ActiveID {
		return drop, false
	}
	return drop, true
}

// Cancel abandons the gesture without reordering.
func (d *Drag) Cancel() {
	*d = Drag{}
}

// Active returns the list and item being dragged, if a drag is active.
func (d *Drag) Active() (scope, id string, ok bool) {
	if !d.active {
		return "", "", false
	}
	return d.scope, d.id, true
}
