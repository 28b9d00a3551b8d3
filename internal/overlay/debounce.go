package overlay

import (
	"sync"
	"time"
)

// DefaultQuietInterval is how long resize activity must pause before a
// rebuild runs.
const DefaultQuietInterval = 120 * time.Millisecond

type stopper interface {
	Stop() bool
}

// Debouncer runs only the last function handed to Trigger once no further
// trigger has arrived for the quiet interval. Earlier pending functions are
// discarded, never queued.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   stopper
	gen     uint64
	pending func()
	stopped bool

	afterFunc func(time.Duration, func()) stopper
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultQuietInterval
	}
	return &Debouncer{
		delay: delay,
		afterFunc: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
}

// Trigger cancels any pending call and schedules fn after the quiet interval.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || fn == nil {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs the pending call if no newer trigger superseded generation gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	fn()
}

// Flush runs the pending call immediately. It reports whether one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel discards the pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop discards any pending call and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
