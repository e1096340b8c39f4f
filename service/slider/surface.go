package slider

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/internal/idgen"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/service/event"
)

const (
	DefaultCompletionThreshold = 0.96
	DefaultActivationRegion    = 0.15
	DefaultAbandonGrace        = 500 * time.Millisecond
)

// ErrNoSession is returned when a gesture arrives without an active session.
var ErrNoSession = errors.New("slider: no active session")

// Resolver receives the single resolution of every session.
type Resolver func(ctx context.Context, resolution *model.Resolution)

// Surface is the confirmation surface. Gesture updates are expected from one
// goroutine; activations may arrive from any goroutine.
type Surface struct {
	threshold float64
	region    float64
	grace     time.Duration
	clock     clock.Func
	resolver  Resolver
	events    *event.Service
	logger    *slog.Logger

	mu      sync.Mutex
	session *Session
}

// New creates a surface.
func New(opts ...Option) *Surface {
	ret := &Surface{
		threshold: DefaultCompletionThreshold,
		region:    DefaultActivationRegion,
		grace:     DefaultAbandonGrace,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SetResolver replaces the resolution handler. The composition root uses it
// to close the loop between the surface and the call coordinator.
func (s *Surface) SetResolver(resolver Resolver) {
	s.mu.Lock()
	s.resolver = resolver
	s.mu.Unlock()
}

// Activate starts a session, resetting the surface in place. An unresolved
// previous session is resolved as superseded so that its owner can release
// what it holds.
func (s *Surface) Activate(ctx context.Context, activation model.Activation) string {
	id := activation.SessionID
	if id == "" {
		id = idgen.New()
	}
	s.mu.Lock()
	var superseded *model.Resolution
	if s.session.Active() {
		superseded, _ = s.session.moveTo(model.SessionCancelled, model.OutcomeSuperseded)
	}
	s.session = &Session{
		ID:             id,
		Mode:           activation.Mode,
		RedialRequired: activation.RedialRequired,
		State:          model.SessionIdle,
		ActivatedAt:    s.clock.Now(),
	}
	s.mu.Unlock()

	if superseded != nil {
		s.resolve(ctx, superseded)
	}
	event.Emit(ctx, s.events, &event.Context{Kind: event.KindSessionActivated, SessionID: id, Mode: activation.Mode},
		event.Session{RedialRequired: activation.RedialRequired})
	s.logger.Debug("confirmation session activated", "session", id, "mode", activation.Mode, "redial", activation.RedialRequired)
	return id
}

// Session returns a copy of the current (possibly resolved) session.
func (s *Surface) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Begin starts a drag at position. It reports false when no idle session
// exists or the drag starts outside the activation region.
func (s *Surface) Begin(position float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin(position)
}

func (s *Surface) begin(position float64) bool {
	if s.session == nil || s.session.State != model.SessionIdle {
		return false
	}
	position = clamp(position)
	if position > s.region {
		return false
	}
	if _, ok := s.session.moveTo(model.SessionDragging, ""); !ok {
		return false
	}
	s.session.Position = position
	return true
}

// Update moves the knob to position. An update on an idle session inside the
// activation region starts the drag. Reaching the completion threshold
// completes the session and resolves it synchronously, once.
func (s *Surface) Update(ctx context.Context, position float64) (model.SessionState, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return "", ErrNoSession
	}
	if s.session.State == model.SessionIdle && !s.begin(position) {
		state := s.session.State
		s.mu.Unlock()
		return state, nil
	}
	if s.session.State != model.SessionDragging {
		state := s.session.State
		s.mu.Unlock()
		return state, nil
	}
	s.session.Position = clamp(position)
	var resolution *model.Resolution
	if s.session.Position >= s.threshold {
		resolution, _ = s.session.moveTo(model.SessionCompleted, model.OutcomeCompleted)
	} else {
		s.session.moveTo(model.SessionDragging, "")
	}
	state := s.session.State
	s.mu.Unlock()

	if resolution != nil {
		s.resolve(ctx, resolution)
	}
	return state, nil
}

// Release ends the drag. Short of the threshold the knob snaps back and the
// session returns to idle so the user can retry.
func (s *Surface) Release() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	if _, ok := s.session.moveTo(model.SessionIdle, ""); ok {
		s.session.Position = 0
	}
	return s.session.State
}

// Cancel resolves the active session as cancelled.
func (s *Surface) Cancel(ctx context.Context) bool {
	return s.terminate(ctx, "", model.OutcomeCancelled)
}

// Back handles back navigation: ignored in call mode, a cancel in unlock
// mode. It reports whether the session was cancelled.
func (s *Surface) Back(ctx context.Context) bool {
	s.mu.Lock()
	if s.session == nil || s.session.Mode != model.ModeUnlock {
		s.mu.Unlock()
		return false
	}
	id := s.session.ID
	s.mu.Unlock()
	return s.terminate(ctx, id, model.OutcomeCancelled)
}

// Hidden records that the surface lost visibility. The first call wins
// until Shown is called.
func (s *Surface) Hidden() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.hiddenAt.IsZero() {
		s.session.hiddenAt = s.clock.Now()
	}
}

// Shown records that the surface is visible again.
func (s *Surface) Shown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.hiddenAt = time.Time{}
	}
}

// CheckAbandoned resolves the session as abandoned once the surface has been
// hidden for longer than the grace period. A brief hide, such as the
// transition to the in-call screen, does not count.
func (s *Surface) CheckAbandoned(ctx context.Context) bool {
	s.mu.Lock()
	if !s.session.Active() || s.session.hiddenAt.IsZero() {
		s.mu.Unlock()
		return false
	}
	id := s.session.ID
	hiddenFor := s.clock.Since(s.session.hiddenAt)
	s.mu.Unlock()
	if hiddenFor <= s.grace {
		return false
	}
	return s.terminate(ctx, id, model.OutcomeAbandoned)
}

// terminate cancels the active session; a non-empty id must match it.
func (s *Surface) terminate(ctx context.Context, id string, outcome model.Outcome) bool {
	s.mu.Lock()
	if !s.session.Active() || (id != "" && s.session.ID != id) {
		s.mu.Unlock()
		return false
	}
	resolution, ok := s.session.moveTo(model.SessionCancelled, outcome)
	s.mu.Unlock()
	if ok && resolution != nil {
		s.resolve(ctx, resolution)
	}
	return ok
}

func (s *Surface) resolve(ctx context.Context, resolution *model.Resolution) {
	event.Emit(ctx, s.events, &event.Context{Kind: event.KindSessionResolved, SessionID: resolution.SessionID, Mode: resolution.Mode},
		event.Session{Outcome: resolution.Outcome, RedialRequired: resolution.RedialRequired})
	s.logger.Debug("confirmation session resolved", "session", resolution.SessionID, "outcome", resolution.Outcome)
	s.mu.Lock()
	resolver := s.resolver
	s.mu.Unlock()
	if resolver != nil {
		resolver(ctx, resolution)
	}
}
