package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indicatorState struct {
	mu      sync.Mutex
	visible bool
	ordinal int
	total   int
	shows   int
	hides   int
}

func (s *indicatorState) snapshot() indicatorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indicatorState{
		visible: s.visible,
		ordinal: s.ordinal,
		total:   s.total,
		shows:   s.shows,
		hides:   s.hides,
	}
}

func newTimer(hold time.Duration) (*IndicatorTimer, *indicatorState) {
	state := &indicatorState{}
	timer := NewIndicatorTimer(hold, nil,
		func(ordinal, total int) {
			state.mu.Lock()
			state.visible = true
			state.ordinal = ordinal
			state.total = total
			state.shows++
			state.mu.Unlock()
		},
		func() {
			state.mu.Lock()
			state.visible = false
			state.hides++
			state.mu.Unlock()
		},
	)
	return timer, state
}

func TestIndicatorShowsThenHides(t *testing.T) {
	timer, state := newTimer(40 * time.Millisecond)

	timer.Show(2, 6, 0)

	s := state.snapshot()
	require.True(t, s.visible)
	assert.Equal(t, 2, s.ordinal)
	assert.Equal(t, 6, s.total)

	assert.Eventually(t, func() bool {
		return !state.snapshot().visible
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, state.snapshot().hides)
}

func TestIndicatorShowReplacesPendingHide(t *testing.T) {
	timer, state := newTimer(60 * time.Millisecond)

	timer.Show(1, 6, 0)
	timer.Show(2, 6, HoldForever)

	// the first deadline passes without blanking the newer ordinal
	assert.Never(t, func() bool {
		return !state.snapshot().visible
	}, 200*time.Millisecond, 10*time.Millisecond)

	s := state.snapshot()
	assert.Equal(t, 2, s.ordinal)
	assert.Equal(t, 0, s.hides)

	timer.Show(3, 6, 30*time.Millisecond)
	assert.Eventually(t, func() bool {
		return !state.snapshot().visible
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, state.snapshot().hides)
}

func TestIndicatorHoldForever(t *testing.T) {
	timer, state := newTimer(10 * time.Millisecond)

	timer.Show(3, 6, HoldForever)

	assert.Never(t, func() bool {
		return !state.snapshot().visible
	}, 80*time.Millisecond, 10*time.Millisecond)

	// a later plain Show re-arms hiding
	timer.Show(4, 6, 0)
	assert.Eventually(t, func() bool {
		return !state.snapshot().visible
	}, time.Second, 5*time.Millisecond)
}

func TestIndicatorDefaultHoldForever(t *testing.T) {
	timer, state := newTimer(HoldForever)

	timer.Show(5, 6, 0)

	assert.Never(t, func() bool {
		return !state.snapshot().visible
	}, 80*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 0, state.snapshot().hides)
}

func TestIndicatorExplicitHold(t *testing.T) {
	timer, state := newTimer(5 * time.Millisecond)

	timer.Show(1, 6, 150*time.Millisecond)

	// still visible well past the default hold
	time.Sleep(40 * time.Millisecond)
	assert.True(t, state.snapshot().visible)

	assert.Eventually(t, func() bool {
		return !state.snapshot().visible
	}, time.Second, 5*time.Millisecond)
}
