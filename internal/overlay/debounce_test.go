package overlay

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) afterFunc(_ time.Duration, fn func()) stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every scheduled callback, including stopped ones, to mimic a
// timer that fired just before Stop won the race.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	timers := append([]*fakeTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

func newTestDebouncer() (*Debouncer, *fakeScheduler) {
	sched := &fakeScheduler{}
	d := NewDebouncer(DefaultQuietInterval)
	d.afterFunc = sched.afterFunc
	return d, sched
}

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d, sched := newTestDebouncer()
	var runs []int
	for i := 1; i <= 5; i++ {
		d.Trigger(func() { runs = append(runs, i) })
	}
	sched.fireAll()

	if len(runs) != 1 || runs[0] != 5 {
		t.Fatalf("runs = %v, want [5]", runs)
	}
	if d.Pending() {
		t.Fatal("nothing should be pending after firing")
	}
}

func TestDebouncerFlush(t *testing.T) {
	d, sched := newTestDebouncer()
	ran := 0
	d.Trigger(func() { ran++ })
	if !d.Flush() {
		t.Fatal("Flush reported nothing pending")
	}
	if d.Flush() {
		t.Fatal("second Flush should be empty")
	}
	sched.fireAll()
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
}

func TestDebouncerStopDiscards(t *testing.T) {
	d, sched := newTestDebouncer()
	ran := false
	d.Trigger(func() { ran = true })
	d.Stop()
	d.Trigger(func() { ran = true })
	sched.fireAll()
	if ran {
		t.Fatal("stopped debouncer ran a call")
	}
}

func TestDebouncerCancel(t *testing.T) {
	d, sched := newTestDebouncer()
	ran := 0
	d.Trigger(func() { ran++ })
	d.Cancel()
	sched.fireAll()
	if ran != 0 {
		t.Fatalf("cancelled call ran %d times", ran)
	}
	d.Trigger(func() { ran++ })
	sched.fireAll()
	if ran != 1 {
		t.Fatalf("ran = %d after retrigger, want 1", ran)
	}
}

func TestDebouncerRealTimer(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	done := make(chan int, 3)
	for i := range 3 {
		d.Trigger(func() { done <- i })
	}
	select {
	case got := <-done:
		if got != 2 {
			t.Fatalf("ran trigger %d, want 2", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	select {
	case extra := <-done:
		t.Fatalf("unexpected extra run %d", extra)
	case <-time.After(50 * time.Millisecond):
	}
}
