package intercept

import (
	"context"

	"github.com/viant/pocketguard/model"
)

// Each adapter below translates the shared verdict into the contract of one
// platform hook. Suppress never acts: another trigger already owns the call.

// Broadcast handles the pre-dial broadcast. It returns the number the
// broadcast should carry on; an empty result cancels the call.
func (s *Service) Broadcast(ctx context.Context, number string) string {
	verdict, err := s.Evaluate(ctx, model.Call{Number: number, Trigger: model.TriggerBroadcast})
	if err != nil || verdict.Decision != model.DecisionIntercept {
		return number
	}
	return ""
}

// ScreeningRequest describes a call presented to the call-screening hook.
type ScreeningRequest struct {
	Number   string
	Outgoing bool
}

// ScreeningResponse is the answer to the call-screening hook. The zero value
// lets the call through.
type ScreeningResponse struct {
	Disallow         bool
	Reject           bool
	SkipNotification bool
}

// Screen handles the call-screening hook. Incoming calls are never touched.
func (s *Service) Screen(ctx context.Context, request ScreeningRequest) ScreeningResponse {
	direction := model.DirectionIncoming
	if request.Outgoing {
		direction = model.DirectionOutgoing
	}
	verdict, err := s.Evaluate(ctx, model.Call{Number: request.Number, Trigger: model.TriggerScreening, Direction: direction})
	if err != nil || verdict.Decision != model.DecisionIntercept {
		return ScreeningResponse{}
	}
	return ScreeningResponse{Disallow: true, Reject: true, SkipNotification: true}
}

// RedirectionResponse is the answer to the call-redirection hook.
type RedirectionResponse struct {
	PlaceUnmodified bool
	Cancel          bool
}

// Redirect handles the call-redirection hook.
func (s *Service) Redirect(ctx context.Context, number string) RedirectionResponse {
	verdict, err := s.Evaluate(ctx, model.Call{Number: number, Trigger: model.TriggerRedirection})
	if err != nil || verdict.Decision != model.DecisionIntercept {
		return RedirectionResponse{PlaceUnmodified: true}
	}
	return RedirectionResponse{Cancel: true}
}

// HeuristicResponse is the answer to the accessibility observer.
type HeuristicResponse struct {
	// EndCall asks the observer to end the connecting call; the user
	// redials after confirming.
	EndCall bool
}

// Observe handles a window event seen by the accessibility observer. Events
// that do not look like an outgoing call screen are ignored. The observer
// cannot read the dialled number.
func (s *Service) Observe(ctx context.Context, window WindowEvent) HeuristicResponse {
	if !window.LooksLikeOutgoingCall() {
		return HeuristicResponse{}
	}
	verdict, err := s.Evaluate(ctx, model.Call{Trigger: model.TriggerHeuristic})
	if err != nil || verdict.Decision != model.DecisionIntercept {
		return HeuristicResponse{}
	}
	return HeuristicResponse{EndCall: true}
}
