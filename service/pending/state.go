package pending

import (
	"errors"
	"time"

	"github.com/viant/pocketguard/model"
)

var (
	// ErrAlreadyPending is returned when a call is marked pending while
	// another one still awaits confirmation.
	ErrAlreadyPending = errors.New("pending: call already pending")

	// ErrNilPending is returned when the caller attempts to store a nil call.
	ErrNilPending = errors.New("pending: nil call")
)

// Pending is the outgoing call awaiting user confirmation. Its presence, not
// its number, marks a call as pending: triggers that cannot read the number
// still own the slot.
type Pending struct {
	Number         string        `json:"number"`
	SessionID      string        `json:"sessionId"`
	Trigger        model.Trigger `json:"trigger"`
	RedialRequired bool          `json:"redialRequired,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Bypass lets the next evaluated call through without interception.
type Bypass struct {
	ArmedAt   time.Time `json:"armedAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"` // zero means no expiry
}

// Expired reports whether the bypass may no longer be honoured at now.
func (b *Bypass) Expired(now time.Time) bool {
	if b == nil {
		return true
	}
	return !b.ExpiresAt.IsZero() && !now.Before(b.ExpiresAt)
}

// State is the complete shared state. A State obtained from Snapshot is a
// private copy; a *State passed to a Transact callback is the working copy of
// the transaction.
type State struct {
	Pending *Pending `json:"pending,omitempty"`
	Bypass  *Bypass  `json:"bypass,omitempty"`
	// LastInterceptAt anchors the heuristic cooldown. Honouring a bypass
	// moves it too.
	LastInterceptAt time.Time `json:"lastInterceptAt,omitempty"`
}

// HasPending reports whether a call awaits confirmation.
func (s *State) HasPending() bool {
	return s.Pending != nil
}

// SetPending marks p as the pending call. It never overwrites an existing
// pending call.
func (s *State) SetPending(p *Pending) error {
	if p == nil {
		return ErrNilPending
	}
	if s.Pending != nil {
		return ErrAlreadyPending
	}
	c := *p
	s.Pending = &c
	return nil
}

// TakePending clears and returns the pending call. A non-empty sessionID must
// match the session that owns the call; otherwise the state is left untouched.
func (s *State) TakePending(sessionID string) (*Pending, bool) {
	if s.Pending == nil {
		return nil, false
	}
	if sessionID != "" && s.Pending.SessionID != sessionID {
		return nil, false
	}
	p := s.Pending
	s.Pending = nil
	return p, true
}

// ArmBypass sets the one-shot bypass. A non-positive ttl arms it without
// expiry.
func (s *State) ArmBypass(now time.Time, ttl time.Duration) {
	b := &Bypass{ArmedAt: now}
	if ttl > 0 {
		b.ExpiresAt = now.Add(ttl)
	}
	s.Bypass = b
}

// ConsumeBypass clears the bypass and reports whether it was armed and still
// valid at now. An expired bypass is cleared but not honoured.
func (s *State) ConsumeBypass(now time.Time) bool {
	if s.Bypass == nil {
		return false
	}
	honoured := !s.Bypass.Expired(now)
	s.Bypass = nil
	return honoured
}

// ClearBypass drops the bypass unconditionally.
func (s *State) ClearBypass() {
	s.Bypass = nil
}

func (s *State) clone() State {
	ret := State{LastInterceptAt: s.LastInterceptAt}
	if s.Pending != nil {
		p := *s.Pending
		ret.Pending = &p
	}
	if s.Bypass != nil {
		b := *s.Bypass
		ret.Bypass = &b
	}
	return ret
}
