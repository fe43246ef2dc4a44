package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want Action
	}{
		{"space advances", Key{Rune: ' '}, Action{Op: OpNext}},
		{"right arrow advances", Key{Right: true}, Action{Op: OpNext}},
		{"left arrow goes back", Key{Left: true}, Action{Op: OpPrev}},
		{"s snapshots", Key{Rune: 's'}, Action{Op: OpSnapshot}},
		{"digit selects directly", Key{Rune: '3'}, Action{Op: OpSelect, Index: 3}},
		{"zero selects first entry", Key{Rune: '0'}, Action{Op: OpSelect, Index: 0}},
		{"digit past catalogue ignored", Key{Rune: '6'}, Action{}},
		{"nine ignored on small catalogue", Key{Rune: '9'}, Action{}},
		{"unmapped rune ignored", Key{Rune: 'q'}, Action{}},
		{"empty key ignored", Key{}, Action{}},
	}

	r := &Router{Entries: 6}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Key(tt.key))
		})
	}
}

func TestPointerTap(t *testing.T) {
	r := &Router{Entries: 6}

	r.PointerDown(mgl32.Vec2{100, 100})
	assert.Equal(t, Action{Op: OpNext}, r.PointerUp(mgl32.Vec2{100, 100}))

	// small drift is still a tap
	r.PointerDown(mgl32.Vec2{100, 100})
	assert.Equal(t, Action{Op: OpNext}, r.PointerUp(mgl32.Vec2{104, 95}))
}

func TestPointerSwipe(t *testing.T) {
	r := &Router{Entries: 6}

	r.PointerDown(mgl32.Vec2{200, 100})
	assert.Equal(t, Action{Op: OpNext}, r.PointerUp(mgl32.Vec2{140, 110}), "leftward drag pulls in the next entry")

	r.PointerDown(mgl32.Vec2{200, 100})
	assert.Equal(t, Action{Op: OpPrev}, r.PointerUp(mgl32.Vec2{260, 90}), "rightward drag goes back")
}

func TestPointerDeadZone(t *testing.T) {
	r := &Router{Entries: 6}

	// farther than a tap, shorter than a swipe
	r.PointerDown(mgl32.Vec2{100, 100})
	assert.Equal(t, Action{}, r.PointerUp(mgl32.Vec2{130, 100}))

	// long but vertical
	r.PointerDown(mgl32.Vec2{100, 100})
	assert.Equal(t, Action{}, r.PointerUp(mgl32.Vec2{100, 300}))

	// horizontal travel must dominate
	r.PointerDown(mgl32.Vec2{100, 100})
	assert.Equal(t, Action{}, r.PointerUp(mgl32.Vec2{160, 180}))
}

func TestPointerUpWithoutDown(t *testing.T) {
	r := &Router{Entries: 6}
	assert.Equal(t, Action{}, r.PointerUp(mgl32.Vec2{10, 10}))

	// a gesture consumes the press
	r.PointerDown(mgl32.Vec2{0, 0})
	r.PointerUp(mgl32.Vec2{0, 0})
	assert.Equal(t, Action{}, r.PointerUp(mgl32.Vec2{0, 0}))
}
