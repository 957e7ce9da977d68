package display

import (
	"sync"
	"time"
)

// Debouncer delays fn until no Trigger has arrived for the quiet period.
// fn runs through dispatch, which the application sets to fyne.Do so the
// callback lands on the UI goroutine.
type Debouncer struct {
	mu       sync.Mutex
	quiet    time.Duration
	fn       func()
	dispatch func(func())
	timer    *time.Timer
	gen      uint64
}

func NewDebouncer(quiet time.Duration, dispatch func(func()), fn func()) *Debouncer {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &Debouncer{quiet: quiet, fn: fn, dispatch: dispatch}
}

// Trigger starts the quiet period, restarting it if one is pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() {
		d.fire(gen)
	})
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// invalidate a timer that already fired but has not taken the lock yet
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.dispatch(d.fn)
}
