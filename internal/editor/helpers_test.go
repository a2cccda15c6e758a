package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
)

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Elapse fires every live timer, as if the quiet window passed with no input.
func (c *fakeClock) Elapse() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// fireStale runs callbacks of timers that were stopped, like a runtime timer
// that fired just as it was being reset.
func (c *fakeClock) fireStale() {
	c.mu.Lock()
	var stale []*fakeTimer
	for _, t := range c.timers {
		if t.stopped {
			stale = append(stale, t)
		}
	}
	c.mu.Unlock()
	for _, t := range stale {
		t.f()
	}
}

func (c *fakeClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeSaver records calls and counts how many run at once. When gated, each
// Save blocks until release is called.
type fakeSaver struct {
	mu          sync.Mutex
	calls       []resumes.Resume
	inFlight    int
	maxInFlight int
	errs        []error
	gated       bool
	release     chan struct{}
	started     chan struct{}
}

func newFakeSaver() *fakeSaver {
	return &fakeSaver{
		release: make(chan struct{}, 16),
		started: make(chan struct{}, 16),
	}
}

func (f *fakeSaver) Save(ctx context.Context, r resumes.Resume) (resumes.Resume, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.calls = append(f.calls, r.Clone())
	idx := len(f.calls) - 1
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	gated := f.gated
	f.mu.Unlock()

	f.started <- struct{}{}
	if gated {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if err != nil {
		return resumes.Resume{}, err
	}
	out := r.Clone()
	if out.ID == "" {
		out.ID = "res-1"
	}
	out.Version = r.Version + 1
	return out, nil
}

func (f *fakeSaver) Calls() []resumes.Resume {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]resumes.Resume(nil), f.calls...)
}

func (f *fakeSaver) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func waitStarted(t *testing.T, f *fakeSaver) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("save did not start")
	}
}

func waitIdle(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.saves.Wait(ctx))
}

func newTestSession(t *testing.T, initial resumes.Resume, saver Saver, opts Options) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	opts.AfterFunc = clock.AfterFunc
	s := NewSession(initial, saver, opts)
	s.Start()
	t.Cleanup(s.Close)
	return s, clock
}

func strPtr(s string) *string { return &s }
