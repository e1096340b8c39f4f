package model

// Mode of a confirmation session.
type Mode string

const (
	ModeCall   Mode = "call"
	ModeUnlock Mode = "unlock"
)

// SessionState is the state of a confirmation session.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionDragging  SessionState = "dragging"
	SessionCompleted SessionState = "completed"
	SessionCancelled SessionState = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s SessionState) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// Outcome describes how a session resolved.
type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"  // slide reached the threshold
	OutcomeCancelled  Outcome = "cancelled"  // explicit cancel or back in unlock mode
	OutcomeAbandoned  Outcome = "abandoned"  // surface hidden past the grace period
	OutcomeSuperseded Outcome = "superseded" // replaced by a newer activation
)

// Activation requests a new confirmation session.
type Activation struct {
	Mode           Mode   `json:"mode"`
	RedialRequired bool   `json:"redialRequired,omitempty"` // display only
	SessionID      string `json:"sessionId,omitempty"`      // generated when empty
}

// Resolution is delivered exactly once for every session that reaches a
// terminal state.
type Resolution struct {
	SessionID      string  `json:"sessionId"`
	Mode           Mode    `json:"mode"`
	Outcome        Outcome `json:"outcome"`
	RedialRequired bool    `json:"redialRequired,omitempty"`
}

// Confirmed reports whether the user completed the slide.
func (r *Resolution) Confirmed() bool {
	return r != nil && r.Outcome == OutcomeCompleted
}
