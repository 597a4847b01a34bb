package search

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long typing must pause before a query is applied.
const DefaultQuietPeriod = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock schedules on the runtime timer.
var RealClock Clock = realClock{}

// Debouncer applies the latest pushed value once no new value has arrived
// for the quiet period.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	quiet   time.Duration
	apply   func(gen uint64, value string)
	timer   Timer
	gen     uint64
	pending bool
}

func NewDebouncer(quiet time.Duration, clock Clock, apply func(string)) *Debouncer {
	return newDebouncer(quiet, clock, func(_ uint64, value string) { apply(value) })
}

// newDebouncer passes the push generation to apply so the caller can drop
// a value that Push or Cancel superseded after the timer fired.
func newDebouncer(quiet time.Duration, clock Clock, apply func(gen uint64, value string)) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{clock: clock, quiet: quiet, apply: apply}
}

// Push records value and restarts the quiet period.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		d.fire(gen, value)
	})
}

func (d *Debouncer) fire(gen uint64, value string) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.apply(gen, value)
}

// Current reports whether gen is still the latest push and nothing has
// cancelled it since.
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Cancel drops a pending value without applying it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
	d.pending = false
}

// Pending reports whether a value is waiting for the quiet period to end.
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
}
