package hover

import (
	"sync"
	"time"
)

// Hide delay components. The delay is the sum of the CSS hide-animation
// start delay, the animation duration, and a buffer for cursor travel, so a
// pointer moving from a link onto its popover never sees a flash-hide.
const (
	hideStartDelay     = 100 * time.Millisecond
	hideDuration       = 300 * time.Millisecond
	cursorTravelBuffer = 200 * time.Millisecond

	// DefaultHideDelay is the default delay before a scheduled hide fires.
	DefaultHideDelay = hideStartDelay + hideDuration + cursorTravelBuffer
)

// HideTimers schedules delayed hides keyed by popover depth. At most one
// timer is pending per depth; scheduling a new one at a depth supersedes
// the previous one. Timers fire on their own goroutine, so stopping the
// time.Timer alone is not enough: a timer that already expired may still
// be waiting to run its callback. Each depth therefore carries an epoch,
// bumped on every Schedule and Cancel; the callback receives the epoch it
// was scheduled under and the caller re-checks it with Current before
// acting, so a canceled or superseded hide never acts on stale intent.
type HideTimers struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[int]*time.Timer
	epochs  map[int]uint64
}

// NewHideTimers creates a registry with the given hide delay.
func NewHideTimers(delay time.Duration) *HideTimers {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &HideTimers{
		delay:   delay,
		pending: make(map[int]*time.Timer),
		epochs:  make(map[int]uint64),
	}
}

// Schedule arranges for fn to run after the hide delay, superseding any
// timer already pending at this depth. fn receives the epoch the timer was
// scheduled under; the returned epoch is the same value. fn must confirm
// the epoch with Current, under whatever lock guards the hide, before
// acting.
func (t *HideTimers) Schedule(depth int, fn func(epoch uint64)) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.pending[depth]; ok {
		timer.Stop()
	}
	t.epochs[depth]++
	epoch := t.epochs[depth]
	t.pending[depth] = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		// A superseded timer must not deschedule its successor.
		if t.epochs[depth] == epoch {
			delete(t.pending, depth)
		}
		t.mu.Unlock()
		fn(epoch)
	})
	return epoch
}

// Current reports whether epoch is still the live epoch for depth. A fired
// callback whose epoch is no longer current was canceled or superseded
// between expiry and execution and must not act.
func (t *HideTimers) Current(depth int, epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epochs[depth] == epoch
}

// Cancel stops the pending timer at exactly this depth, if any, and
// invalidates its epoch so an already expired callback becomes a no-op.
func (t *HideTimers) Cancel(depth int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.pending[depth]; ok {
		timer.Stop()
		delete(t.pending, depth)
	}
	t.epochs[depth]++
}

// CancelFrom stops every pending timer whose depth is >= depth and
// invalidates their epochs.
func (t *HideTimers) CancelFrom(depth int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for d, timer := range t.pending {
		if d >= depth {
			timer.Stop()
			delete(t.pending, d)
		}
	}
	for d := range t.epochs {
		if d >= depth {
			t.epochs[d]++
		}
	}
}

// Flush stops every pending timer.
func (t *HideTimers) Flush() {
	t.CancelFrom(0)
}

// PendingCount returns the number of pending timers.
func (t *HideTimers) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
