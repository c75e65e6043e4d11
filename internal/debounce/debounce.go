// Package debounce delays a call until a quiet period has passed.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of triggers, once the interval
// has elapsed without a newer trigger.
type Debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn and cancels any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		current := seq == d.seq
		d.mu.Unlock()

		// A newer trigger may have raced past Stop.
		if current {
			fn()
		}
	})
}

// Stop drops the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
