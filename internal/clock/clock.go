package clock

import (
	"sync"
	"time"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Func supplies the current time to a component; nil falls back to Now.
type Func func() time.Time

// Now returns the time reported by f or the package clock when f is nil.
func (f Func) Now() time.Time {
	if f == nil {
		return Now()
	}
	return f()
}

// Since is the duration elapsed between t and the time reported by f. A zero
// t reports the maximum duration so that "never happened" is never recent.
func (f Func) Since(t time.Time) time.Duration {
	if t.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return f.Now().Sub(t)
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Func adapts the fake clock to Func.
func (f *Fake) Func() Func { return f.Now }
