package intercept

import (
	"time"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/pending"
)

// DefaultCooldown suppresses the heuristic trigger after an interception.
const DefaultCooldown = 3 * time.Second

// Reason explains a decision.
type Reason string

const (
	ReasonIncoming    Reason = "incoming"
	ReasonBypass      Reason = "bypass"
	ReasonDisabled    Reason = "disabled"
	ReasonEmergency   Reason = "emergency"
	ReasonNotInPocket Reason = "notInPocket"
	ReasonPending     Reason = "pending"
	ReasonCooldown    Reason = "cooldown"
	ReasonIntercepted Reason = "intercepted"
)

// Input is everything a decision depends on.
type Input struct {
	Call      model.Call
	State     pending.State
	Policy    *policy.Policy
	InPocket  bool
	Now       time.Time
	Cooldown  time.Duration
	Emergency EmergencyList
}

// Verdict is the outcome of Decide.
type Verdict struct {
	Decision model.Decision `json:"decision"`
	Reason   Reason         `json:"reason"`
	// ConsumeBypass tells the caller to clear the bypass marker, whether it
	// was honoured or had expired.
	ConsumeBypass bool `json:"-"`
	// SessionID is the confirmation session started for an interception.
	SessionID string `json:"sessionId,omitempty"`
}

// Decide applies the arbitration policy; the first matching rule wins. It is
// a pure function of its input.
func Decide(in *Input) Verdict {
	if !in.Call.Outgoing() {
		return Verdict{Decision: model.DecisionAllow, Reason: ReasonIncoming}
	}
	consume := false
	if in.State.Bypass != nil {
		consume = true
		if !in.State.Bypass.Expired(in.Now) {
			return Verdict{Decision: model.DecisionAllow, Reason: ReasonBypass, ConsumeBypass: true}
		}
	}
	p := in.Policy
	if p == nil {
		p = &policy.Policy{}
	}
	verdict := func(decision model.Decision, reason Reason) Verdict {
		return Verdict{Decision: decision, Reason: reason, ConsumeBypass: consume}
	}
	switch {
	case !p.SecureCalls:
		return verdict(model.DecisionAllow, ReasonDisabled)
	case in.Emergency.Match(in.Call.Number):
		return verdict(model.DecisionAllow, ReasonEmergency)
	case p.OnlyWhenInPocket && !in.InPocket:
		return verdict(model.DecisionAllow, ReasonNotInPocket)
	case in.State.HasPending():
		return verdict(model.DecisionSuppress, ReasonPending)
	case !in.Call.Trigger.Authoritative() && !in.State.LastInterceptAt.IsZero() &&
		in.Now.Sub(in.State.LastInterceptAt) < in.Cooldown:
		return verdict(model.DecisionSuppress, ReasonCooldown)
	}
	return verdict(model.DecisionIntercept, ReasonIntercepted)
}
