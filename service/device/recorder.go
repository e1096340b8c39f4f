package device

import (
	"context"
	"sync"
)

// Recorder is an in-memory Locker and Dialer that records every request. It
// backs scenario replays and tests.
type Recorder struct {
	mu      sync.Mutex
	locked  int
	dialed  []string
	canLock bool
	dialErr error
}

// RecorderOption configures a Recorder.
type RecorderOption func(r *Recorder)

// WithLockPrivilege sets whether Lock succeeds.
func WithLockPrivilege(granted bool) RecorderOption {
	return func(r *Recorder) { r.canLock = granted }
}

// WithDialError makes every Dial fail with err.
func WithDialError(err error) RecorderOption {
	return func(r *Recorder) { r.dialErr = err }
}

// NewRecorder creates a recorder that can lock and dial unless configured
// otherwise.
func NewRecorder(opts ...RecorderOption) *Recorder {
	ret := &Recorder{canLock: true}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Lock records a lock request.
func (r *Recorder) Lock() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.canLock {
		return false
	}
	r.locked++
	return true
}

// Dial records a placed call.
func (r *Recorder) Dial(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dialErr != nil {
		return r.dialErr
	}
	r.dialed = append(r.dialed, number)
	return nil
}

// Locks returns how many times the device was locked.
func (r *Recorder) Locks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked
}

// Dialed returns the numbers dialed so far.
func (r *Recorder) Dialed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dialed...)
}
