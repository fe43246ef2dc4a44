package engine

import (
	"sync"
	"time"
)

// HoldForever keeps the indicator visible until the next Show.
const HoldForever time.Duration = -1

// Indicator surfaces the 1-based catalogue position after a switch.
// A hold of 0 means the implementation's default duration.
type Indicator interface {
	Show(ordinal, total int, hold time.Duration)
}

// IndicatorTimer implements the indicator's timing rules over a pair of
// display callbacks: each Show replaces the previous hide deadline, so at
// most one hide is ever pending, and a stale deadline can never blank a
// newer ordinal.
type IndicatorTimer struct {
	defaultHold time.Duration
	runOnMain   func(func())
	show        func(ordinal, total int)
	hide        func()

	mu      sync.Mutex
	seq     uint64
	pending *time.Timer
}

// NewIndicatorTimer builds the timing core. show and hide are called on
// the main loop via runOnMain.
func NewIndicatorTimer(
	defaultHold time.Duration,
	runOnMain func(func()),
	show func(ordinal, total int),
	hide func(),
) *IndicatorTimer {
	if runOnMain == nil {
		runOnMain = func(f func()) { f() }
	}
	return &IndicatorTimer{
		defaultHold: defaultHold,
		runOnMain:   runOnMain,
		show:        show,
		hide:        hide,
	}
}

func (t *IndicatorTimer) Show(ordinal, total int, hold time.Duration) {
	t.mu.Lock()
	t.seq++
	seq := t.seq

	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}

	if hold == 0 {
		hold = t.defaultHold
	}
	if hold >= 0 {
		t.pending = time.AfterFunc(hold, func() { t.hideIf(seq) })
	}
	t.mu.Unlock()

	t.runOnMain(func() { t.show(ordinal, total) })
}

// hideIf hides the indicator unless a newer Show owns it by now.
func (t *IndicatorTimer) hideIf(seq uint64) {
	t.mu.Lock()
	current := t.seq == seq
	if current {
		t.pending = nil
	}
	t.mu.Unlock()

	if current {
		t.runOnMain(t.hide)
	}
}
