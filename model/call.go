package model

import "strings"

// Trigger identifies the platform hook point that observed an outgoing call.
type Trigger string

const (
	TriggerBroadcast   Trigger = "broadcast"   // pre-dial broadcast
	TriggerScreening   Trigger = "screening"   // call-screening hook
	TriggerRedirection Trigger = "redirection" // call-redirection hook
	TriggerHeuristic   Trigger = "heuristic"   // accessibility-observed dialer UI
)

// Authoritative reports whether the platform guarantees the trigger fires at
// most once per call.
func (t Trigger) Authoritative() bool {
	return t != TriggerHeuristic
}

// RedialRequired reports whether an intercepted call can only be ended, not
// prevented, so the user has to redial after confirming.
func (t Trigger) RedialRequired() bool {
	return t == TriggerHeuristic
}

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerBroadcast, TriggerScreening, TriggerRedirection, TriggerHeuristic:
		return true
	}
	return false
}

// Direction of a screened call.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Call is a single observation of a call by one trigger.
type Call struct {
	Number    string    `json:"number" yaml:"number"`
	Trigger   Trigger   `json:"trigger" yaml:"trigger"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"` // empty means outgoing
}

// Outgoing reports whether the call is outgoing.
func (c *Call) Outgoing() bool {
	return c.Direction == "" || c.Direction == DirectionOutgoing
}

// Decision is the arbitration outcome returned to a trigger.
type Decision string

const (
	DecisionAllow     Decision = "allow"     // let the call proceed unmodified
	DecisionIntercept Decision = "intercept" // prevent the call and ask for confirmation
	DecisionSuppress  Decision = "suppress"  // another trigger already owns this call
)

// Digits returns number with every non-digit character removed.
func Digits(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
