package session

import (
	"sync"
	"testing"
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/persona"
)

// fakeClock schedules callbacks on a virtual timeline advanced by tests.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the virtual clock, firing due timers synchronously.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func codingOrchestrator() *Orchestrator {
	s := New("sess-debounce", testProblem, persona.LevelIntermediate, "python")
	s.Phase = PhaseCoding
	s.EditorLocked = false
	s.Code = "def two_sum(nums, target):\n    seen = {}\n    result = []\n    pass"
	return NewOrchestrator(s, nil, nil, nil, nil, nil)
}

func TestDebounce_FiresOnceAfterQuietInterval(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, 3*time.Second)
	o := codingOrchestrator()

	fired := 0
	notify := func(string) { fired++ }

	// Edits at t=0, t=1, t=2, then silence.
	d.Touch(o, notify)
	clock.Advance(1 * time.Second)
	d.Touch(o, notify)
	clock.Advance(1 * time.Second)
	d.Touch(o, notify)

	if fired != 0 {
		t.Fatalf("hint fired during active editing: %d", fired)
	}

	// The hint fires once at t=2+3=5, not three times.
	clock.Advance(3 * time.Second)
	if fired != 1 {
		t.Fatalf("expected exactly 1 hint, got %d", fired)
	}

	clock.Advance(10 * time.Second)
	if fired != 1 {
		t.Fatalf("hint must not refire without a new edit, got %d", fired)
	}
}

func TestDebounce_EditCancelsPendingHint(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, 3*time.Second)
	o := codingOrchestrator()

	fired := 0
	d.Touch(o, func(string) { fired++ })
	clock.Advance(2 * time.Second)

	// New edit just before the deadline rearms the timer.
	d.Touch(o, func(string) { fired++ })
	clock.Advance(2 * time.Second)
	if fired != 0 {
		t.Fatalf("cancelled hint fired: %d", fired)
	}

	clock.Advance(1 * time.Second)
	if fired != 1 {
		t.Fatalf("expected 1 hint after the rearmed interval, got %d", fired)
	}
}

func TestDebounce_NoHintWhenCodeTooShort(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, 3*time.Second)
	o := codingOrchestrator()
	o.Session().Code = "x = 1"

	fired := 0
	d.Touch(o, func(string) { fired++ })
	clock.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatalf("no hint expected for near-empty code, got %d", fired)
	}
}

func TestDebounce_NoHintOutsideCoding(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, 3*time.Second)

	s := New("sess-locked", testProblem, persona.LevelIntermediate, "python")
	s.Code = "plenty of code that would otherwise produce an inactivity hint"
	o := NewOrchestrator(s, nil, nil, nil, nil, nil)

	fired := 0
	d.Touch(o, func(string) { fired++ })
	clock.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatalf("no hint expected outside Coding phase, got %d", fired)
	}
}

func TestDebounce_Cancel(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, 3*time.Second)
	o := codingOrchestrator()

	fired := 0
	d.Touch(o, func(string) { fired++ })
	d.Cancel()
	clock.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatalf("cancelled debouncer fired: %d", fired)
	}
}

func TestOrchestrator_ConcurrentEditsAndAutoHints(t *testing.T) {
	o := codingOrchestrator()
	code := o.Session().Code

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 200 {
			_ = o.UpdateCode(code)
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			_ = o.AutoHint()
		}
	}()
	wg.Wait()

	if o.Session().Code != code {
		t.Fatal("code lost during concurrent edits")
	}
}

func TestDebounce_TimerFiresSafelyDuringEdits(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(clock, time.Millisecond)
	o := codingOrchestrator()
	code := o.Session().Code

	// An armed timer delivers its hint on the clock goroutine while the
	// editing goroutine keeps writing code through the orchestrator.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 100 {
			_ = o.UpdateCode(code)
			d.Touch(o, func(string) {})
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			clock.Advance(time.Millisecond)
		}
	}()
	wg.Wait()
	d.Cancel()
}

func TestRegistry_PutGetDelete(t *testing.T) {
	r := NewRegistry(time.Hour, nil)
	defer r.Close()

	o := codingOrchestrator()
	e := &Entry{Orchestrator: o, Debouncer: NewDebouncer(newFakeClock(), time.Second)}
	r.Put("sess-debounce", e)

	if got := r.Get("sess-debounce"); got != e {
		t.Fatal("entry not returned")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}

	r.Delete("sess-debounce")
	if r.Get("sess-debounce") != nil {
		t.Fatal("entry not deleted")
	}
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	defer r.Close()

	stale := codingOrchestrator()
	stale.Session().LastActive = time.Now().Add(-2 * time.Minute)
	r.Put("stale", &Entry{Orchestrator: stale, Debouncer: NewDebouncer(newFakeClock(), time.Second)})

	fresh := codingOrchestrator()
	r.Put("fresh", &Entry{Orchestrator: fresh, Debouncer: NewDebouncer(newFakeClock(), time.Second)})

	r.sweep()

	if r.Get("stale") != nil {
		t.Fatal("idle session should be evicted")
	}
	if r.Get("fresh") == nil {
		t.Fatal("active session should survive the sweep")
	}
}
