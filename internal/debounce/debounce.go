// Package debounce delays propagation of a rapidly-changing value: each Set
// cancels the previous pending timer, so the callback fires exactly once per
// settled value.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns at most one pending timer. The zero value is not usable;
// construct with New.
type Debouncer[T any] struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func(T)
	timer    *time.Timer
}

// New returns a Debouncer that invokes fn with the most recent value once no
// new value has arrived for interval.
func New[T any](interval time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{interval: interval, fn: fn}
}

// Set schedules fn(v) after the interval, cancelling any pending invocation.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() { d.fn(v) })
}

// Stop cancels any pending invocation and releases the timer.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
