package session

import (
	"sync"
	"time"
)

// DefaultQuietInterval is how long the editor must stay idle before an
// inactivity hint fires.
const DefaultQuietInterval = 3 * time.Second

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks. The real clock delegates to
// time.AfterFunc; tests inject a virtual clock so the debounce property is
// checkable without wall-clock waits.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

// Debouncer arms a deferred inactivity hint on every code edit. Each edit
// cancels the previous pending hint, so at most one fires per quiet
// interval. Hints surface only while the session is in the Coding phase
// with an unlocked editor and enough code to hint on.
type Debouncer struct {
	clock Clock
	quiet time.Duration

	mu      sync.Mutex
	pending Timer
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(clock Clock, quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietInterval
	}
	return &Debouncer{clock: clock, quiet: quiet}
}

// Touch rearms the inactivity timer. When the quiet interval elapses with
// no further Touch, the orchestrator's auto-hint is computed and, if
// non-empty, delivered through notify.
func (d *Debouncer) Touch(o *Orchestrator, notify func(hint string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}

	d.pending = d.clock.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		d.pending = nil
		d.mu.Unlock()

		if text := o.AutoHint(); text != "" {
			notify(text)
		}
	})
}

// Cancel stops any pending inactivity hint.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
