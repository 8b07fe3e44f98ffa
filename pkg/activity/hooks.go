package activity

import (
	"context"
	"errors"
	"sync"
)

// Hook receives normalized activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, evt Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, evt Event) error {
	return fn(ctx, evt)
}

// Hooks fans an event out to every hook. Events without a verb are dropped.
type Hooks []Hook

// Notify normalizes evt and delivers it to each hook, joining their errors.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if !evt.valid() {
		return nil
	}
	var errs error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// CaptureHook keeps the events it receives. Useful in tests and demos, and
// as the backing store of the recent activity widget.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	// Limit caps the retained events, oldest dropped first. Zero keeps all.
	Limit int
}

// Notify records evt.
func (c *CaptureHook) Notify(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, evt)
	if c.Limit > 0 && len(c.Events) > c.Limit {
		c.Events = append([]Event(nil), c.Events[len(c.Events)-c.Limit:]...)
	}
	return nil
}

// Snapshot returns a copy of the captured events.
func (c *CaptureHook) Snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.Events...)
}
