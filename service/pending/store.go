package pending

import (
	"sync"
	"time"
)

// Store is the single serialization point between triggers and the
// confirmation surface. One Store is created per process by the composition
// root and injected into every component that needs it.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Transact runs fn with exclusive access to a working copy of the state. The
// copy replaces the stored state only when fn returns nil, so a failed
// transaction leaves no partial writes behind.
func (s *Store) Transact(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&work); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Snapshot returns a consistent copy of the state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Pending returns a copy of the pending call, if any.
func (s *Store) Pending() (Pending, bool) {
	st := s.Snapshot()
	if st.Pending == nil {
		return Pending{}, false
	}
	return *st.Pending, true
}

// SetPending stores p unless a call is already pending.
func (s *Store) SetPending(p Pending) error {
	return s.Transact(func(st *State) error {
		return st.SetPending(&p)
	})
}

// TakePending atomically reads and clears the pending call owned by sessionID
// (any session when empty).
func (s *Store) TakePending(sessionID string) (*Pending, bool) {
	var (
		ret *Pending
		ok  bool
	)
	_ = s.Transact(func(st *State) error {
		ret, ok = st.TakePending(sessionID)
		return nil
	})
	return ret, ok
}

// ArmBypass arms the one-shot bypass.
func (s *Store) ArmBypass(now time.Time, ttl time.Duration) {
	_ = s.Transact(func(st *State) error {
		st.ArmBypass(now, ttl)
		return nil
	})
}

// ClearBypass drops the bypass.
func (s *Store) ClearBypass() {
	_ = s.Transact(func(st *State) error {
		st.ClearBypass()
		return nil
	})
}

// Bypassed reports whether a bypass is currently armed (expired or not).
func (s *Store) Bypassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Bypass != nil
}
