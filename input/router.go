// Package input maps key presses and pointer gestures onto viewer actions.
package input

import "github.com/go-gl/mathgl/mgl32"

type Op int

const (
	OpNone Op = iota
	OpNext
	OpPrev
	OpSelect
	OpSnapshot
)

// Action is what an input event asks the viewer to do. Index is the
// catalogue index and only meaningful for OpSelect.
type Action struct {
	Op    Op
	Index int
}

const (
	// TapSlop is the largest press-to-release travel still read as a tap.
	TapSlop = 8
	// SwipeDistance is the least horizontal travel read as a swipe.
	SwipeDistance = 48
)

// Key is a decoded key press. Rune is the character the key produces,
// 0 when it has none; Left and Right are the arrow keys.
type Key struct {
	Rune  rune
	Left  bool
	Right bool
}

// Router turns decoded events into actions. Entries bounds the digit
// shortcuts; digits at or past it are ignored.
type Router struct {
	Entries int

	pressed  bool
	pressPos mgl32.Vec2
}

func (r *Router) Key(k Key) Action {
	switch {
	case k.Left:
		return Action{Op: OpPrev}
	case k.Right:
		return Action{Op: OpNext}
	}

	switch {
	case k.Rune == ' ':
		return Action{Op: OpNext}
	case k.Rune == 's':
		return Action{Op: OpSnapshot}
	case k.Rune >= '0' && k.Rune <= '9':
		i := int(k.Rune - '0')
		if i < r.Entries {
			return Action{Op: OpSelect, Index: i}
		}
	}

	return Action{}
}

// PointerDown starts a gesture at pos, in pixels.
func (r *Router) PointerDown(pos mgl32.Vec2) {
	r.pressed = true
	r.pressPos = pos
}

// PointerUp finishes a gesture. A release near the press point is a tap
// and advances the catalogue. A mostly-horizontal drag past
// SwipeDistance is a swipe: dragging left pulls in the next entry,
// dragging right the previous one. Anything else does nothing.
func (r *Router) PointerUp(pos mgl32.Vec2) Action {
	if !r.pressed {
		return Action{}
	}
	r.pressed = false

	d := pos.Sub(r.pressPos)
	dx, dy := d.X(), d.Y()
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	if dx >= SwipeDistance && dx > dy {
		if d.X() < 0 {
			return Action{Op: OpNext}
		}
		return Action{Op: OpPrev}
	}

	if d.Len() <= TapSlop {
		return Action{Op: OpNext}
	}

	return Action{}
}
