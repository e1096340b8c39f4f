package slider

import (
	"time"

	"github.com/viant/pocketguard/model"
)

// Session is one activation of the confirmation gesture.
type Session struct {
	ID             string             `json:"id"`
	Mode           model.Mode         `json:"mode"`
	RedialRequired bool               `json:"redialRequired,omitempty"`
	Position       float64            `json:"position"`
	State          model.SessionState `json:"state"`
	Outcome        model.Outcome      `json:"outcome,omitempty"`
	ActivatedAt    time.Time          `json:"activatedAt"`
	hiddenAt       time.Time
}

// Active reports whether the session can still transition.
func (s *Session) Active() bool {
	return s != nil && !s.State.Terminal()
}

// Prompt returns the instruction shown above the slider.
func (s *Session) Prompt() string {
	switch {
	case s.Mode == model.ModeUnlock:
		return "Slide to unlock"
	case s.RedialRequired:
		return "Call blocked.\nSlide to confirm,\nthen redial."
	default:
		return "Slide to call"
	}
}

// transitions lists the states reachable from each non-terminal state.
var transitions = map[model.SessionState][]model.SessionState{
	model.SessionIdle:     {model.SessionDragging, model.SessionCancelled},
	model.SessionDragging: {model.SessionDragging, model.SessionIdle, model.SessionCompleted, model.SessionCancelled},
}

func canTransition(from, to model.SessionState) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// moveTo applies a transition and returns the resolution when the session
// became terminal. Disallowed transitions leave the session untouched.
func (s *Session) moveTo(to model.SessionState, outcome model.Outcome) (*model.Resolution, bool) {
	if !canTransition(s.State, to) {
		return nil, false
	}
	s.State = to
	if !to.Terminal() {
		return nil, true
	}
	s.Outcome = outcome
	return s.resolution(outcome), true
}

func (s *Session) resolution(outcome model.Outcome) *model.Resolution {
	return &model.Resolution{
		SessionID:      s.ID,
		Mode:           s.Mode,
		Outcome:        outcome,
		RedialRequired: s.RedialRequired,
	}
}

func clamp(position float64) float64 {
	switch {
	case position != position: // NaN
		return 0
	case position < 0:
		return 0
	case position > 1:
		return 1
	}
	return position
}
