package editor

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Stopper

// StdAfterFunc schedules with the runtime timer.
func StdAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Debouncer fires once after a quiet window with no Touch calls.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	after   AfterFunc
	fire    func()
	timer   Stopper
	gen     uint64
	pending bool
}

// NewDebouncer builds a Debouncer calling fire after window of quiet.
func NewDebouncer(window time.Duration, after AfterFunc, fire func()) *Debouncer {
	if after == nil {
		after = StdAfterFunc
	}
	return &Debouncer{window: window, after: after, fire: fire}
}

// Touch (re)starts the quiet window.
func (d *Debouncer) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.after(d.window, func() { d.elapsed(gen) })
}

func (d *Debouncer) elapsed(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fire()
}

// Cancel drops a pending fire. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.stopLocked()
	return was
}

// Flush fires immediately if a fire is pending.
func (d *Debouncer) Flush() bool {
	if !d.Cancel() {
		return false
	}
	d.fire()
	return true
}

// Pending reports whether a fire is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}
