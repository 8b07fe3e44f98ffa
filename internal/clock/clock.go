// Package clock abstracts the timer operations used by debounced widgets so
// tests can drive time deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock is the subset of the time package widgets depend on.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f after d elapses. The returned Timer can cancel it.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancelable pending call.
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// still pending.
	Stop() bool
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake returns a FakeClock frozen at initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock only moves when Advance is called. AfterFunc callbacks run
// synchronously inside Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	fn       func()
	done     bool
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run once the clock advances d past now. A
// non-positive d runs f before returning.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	timer := &fakeTimer{clock: c, fn: f}
	if d <= 0 {
		timer.done = true
		f()
		return timer
	}
	c.mu.Lock()
	timer.deadline = c.current.Add(d)
	c.waiters = append(c.waiters, timer)
	c.mu.Unlock()
	return timer
}

// Advance moves the clock forward and fires every expired timer.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	var due []*fakeTimer
	pending := c.waiters[:0]
	for _, w := range c.waiters {
		switch {
		case w.done:
		case !w.deadline.After(target):
			w.done = true
			due = append(due, w)
		default:
			pending = append(pending, w)
		}
	}
	c.waiters = pending
	c.current = target
	c.mu.Unlock()

	sortByDeadline(due)
	for _, w := range due {
		w.fn()
	}
}

// Pending reports how many timers are still waiting to fire.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, w := range c.waiters {
		if !w.done {
			count++
		}
	}
	return count
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func sortByDeadline(timers []*fakeTimer) {
	for i := 1; i < len(timers); i++ {
		for j := i; j > 0 && timers[j].deadline.Before(timers[j-1].deadline); j-- {
			timers[j], timers[j-1] = timers[j-1], timers[j]
		}
	}
}
