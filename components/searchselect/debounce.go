package searchselect

import (
	"sync"
	"time"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

// Debouncer collapses bursts of Trigger calls into a single call once delay
// has passed without a new trigger. The latest function wins.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration

	mu    sync.Mutex
	timer clock.Timer
	seq   uint64
}

// NewDebouncer builds a debouncer on c. A nil clock uses the real clock.
func NewDebouncer(c clock.Clock, delay time.Duration) *Debouncer {
	if c == nil {
		c = clock.Real()
	}
	return &Debouncer{clock: c, delay: delay}
}

// Trigger schedules fn, replacing any pending call. With a non-positive
// delay fn runs before Trigger returns.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.stopLocked()
	d.seq++
	seq := d.seq
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that fired while being replaced or canceled is stale
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	d.stopLocked()
	d.seq++
	return pending
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
