// Package watcher provides debouncing and debounced file watching.
package watcher

import (
	"sync"
	"time"
)

// SearchDebounce is the input quiet period before a search runs.
const SearchDebounce = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers into one callback. Each Trigger
// supersedes the previously scheduled callback, so only the last one in a
// burst runs, once the duration has passed without another trigger.
type Debouncer struct {
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a Debouncer. A non-positive duration falls back to
// SearchDebounce.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = SearchDebounce
	}
	return &Debouncer{duration: duration}
}

// Trigger (re)schedules callback to run after the debounce duration.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		if !d.claim(seq) {
			return
		}
		callback()
	})
}

// claim reports whether seq is still the latest schedule. A timer that fired
// just as it was being stopped loses here.
func (d *Debouncer) claim(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return false
	}
	d.timer = nil
	return true
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is scheduled and has not run yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the debounce window
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
