package portal

import (
	"fmt"
	"time"
)

// OwnerOptions tunes the bounded wait for an identifier's first instance.
type OwnerOptions struct {
	// TickAttempts is how many consecutive loop ticks are tried before
	// falling back to interval polling.
	TickAttempts int
	// Interval is the polling period after the tick attempts run out.
	Interval time.Duration
	// Timeout bounds the whole wait, measured on the loop clock.
	Timeout time.Duration
}

// DefaultOwnerOptions returns the standard wait tuning: five tick
// attempts, then 100ms polling, giving up after five seconds.
func DefaultOwnerOptions() OwnerOptions {
	return OwnerOptions{
		TickAttempts: 5,
		Interval:     100 * time.Millisecond,
		Timeout:      5 * time.Second,
	}
}

func (o OwnerOptions) normalized() OwnerOptions {
	def := DefaultOwnerOptions()
	if o.TickAttempts <= 0 {
		o.TickAttempts = def.TickAttempts
	}
	if o.Interval <= 0 {
		o.Interval = def.Interval
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	return o
}

// FindOwner waits for the first live instance of id and passes it to fn on
// the event loop. If no instance syncs before the timeout, fn receives
// nil. The wait never blocks: an instance already registered is still
// delivered asynchronously on the next tick.
func (r *Relay) FindOwner(id string, fn func(*Controller)) {
	r.FindOwnerWith(id, DefaultOwnerOptions(), fn)
}

// FindOwnerWith is FindOwner with explicit wait tuning.
func (r *Relay) FindOwnerWith(id string, opts OwnerOptions, fn func(*Controller)) {
	mustValidIdentifier(id)
	if fn == nil {
		panic("portal: FindOwner called with nil callback")
	}
	r.waitOwner(id, opts.normalized(), func(c *Controller, _ error) {
		fn(c)
	})
}

// RequireOwner is FindOwner for callers that treat a missing owner as a
// failure: on timeout fn receives a nil controller and ErrOwnerTimeout.
func (r *Relay) RequireOwner(id string, fn func(*Controller, error)) {
	r.RequireOwnerWith(id, DefaultOwnerOptions(), fn)
}

// RequireOwnerWith is RequireOwner with explicit wait tuning.
func (r *Relay) RequireOwnerWith(id string, opts OwnerOptions, fn func(*Controller, error)) {
	mustValidIdentifier(id)
	if fn == nil {
		panic("portal: RequireOwner called with nil callback")
	}
	r.waitOwner(id, opts.normalized(), fn)
}

// waitOwner retries on consecutive ticks first, which resolves the common
// case of a controller syncing a moment later without paying the polling
// interval, then falls back to interval timers until the deadline.
func (r *Relay) waitOwner(id string, opts OwnerOptions, fn func(*Controller, error)) {
	deadline := r.loop.Now().Add(opts.Timeout)
	attempts := 0

	var attempt func()
	attempt = func() {
		if r.disconnected {
			fn(nil, fmt.Errorf("%w: %s", ErrOwnerTimeout, id))
			return
		}
		if c, ok := r.registry.firstOf(id); ok {
			fn(c, nil)
			return
		}
		if !r.loop.Now().Before(deadline) {
			fn(nil, fmt.Errorf("%w: %s", ErrOwnerTimeout, id))
			return
		}
		attempts++
		if attempts < opts.TickAttempts {
			r.loop.Post(attempt)
			return
		}
		r.loop.After(opts.Interval, attempt)
	}
	r.loop.Post(attempt)
}
