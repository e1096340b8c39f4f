package intercept

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/internal/idgen"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/progress"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
	"github.com/viant/pocketguard/service/pending"
	"github.com/viant/pocketguard/tracing"
)

// DefaultBypassTTL bounds how long a confirmed call may take to come back
// through a trigger.
const DefaultBypassTTL = 15 * time.Second

// Presence reports whether the device is in a pocket.
type Presence interface {
	InPocket() bool
}

// Activator starts a confirmation session and returns its id.
type Activator interface {
	Activate(ctx context.Context, activation model.Activation) string
}

// Service is the call interception coordinator.
type Service struct {
	store     *pending.Store
	activator Activator
	policy    policy.Provider
	presence  Presence
	dialer    device.Dialer
	cooldown  time.Duration
	bypassTTL time.Duration
	emergency EmergencyList
	clock     clock.Func
	progress  *progress.Progress
	events    *event.Service
	logger    *slog.Logger
}

// New creates a coordinator sharing store with every other trigger handler
// and starting confirmation sessions on activator.
func New(store *pending.Store, activator Activator, opts ...Option) *Service {
	ret := &Service{
		store:     store,
		activator: activator,
		policy:    policy.Static{},
		dialer:    device.Nop{},
		cooldown:  DefaultCooldown,
		bypassTTL: DefaultBypassTTL,
		emergency: DefaultEmergencyNumbers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Evaluate decides the fate of call. On Intercept the pending call is
// recorded and a call-mode confirmation session is started before Evaluate
// returns.
func (s *Service) Evaluate(ctx context.Context, call model.Call) (verdict Verdict, err error) {
	ctx, span := tracing.StartSpan(ctx, "intercept.evaluate")
	defer func() {
		span.WithAttributes(map[string]string{
			"trigger":  string(call.Trigger),
			"decision": string(verdict.Decision),
			"reason":   string(verdict.Reason),
		})
		tracing.EndSpan(span, err)
	}()

	if !call.Trigger.Valid() {
		return Verdict{}, fmt.Errorf("unsupported trigger: %q", call.Trigger)
	}
	input := &Input{
		Call:      call,
		Policy:    policy.Resolve(ctx, s.policy),
		InPocket:  s.inPocket(),
		Cooldown:  s.cooldown,
		Emergency: s.emergency,
	}
	sessionID := idgen.New()
	err = s.store.Transact(func(st *pending.State) error {
		input.Now = s.clock.Now()
		input.State = *st
		verdict = Decide(input)
		if verdict.ConsumeBypass {
			st.ConsumeBypass(input.Now)
		}
		if verdict.Reason == ReasonBypass {
			// the confirmed call redraws the dialer; keep the heuristic quiet
			// as if it had just been intercepted
			st.LastInterceptAt = input.Now
		}
		if verdict.Decision != model.DecisionIntercept {
			return nil
		}
		if err := st.SetPending(&pending.Pending{
			Number:         call.Number,
			SessionID:      sessionID,
			Trigger:        call.Trigger,
			RedialRequired: call.Trigger.RedialRequired(),
			CreatedAt:      input.Now,
		}); err != nil {
			return err
		}
		st.LastInterceptAt = input.Now
		return nil
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to record %s interception: %w", call.Trigger, err)
	}

	s.progress.Update(progress.DecisionDelta(verdict.Decision))
	event.Emit(ctx, s.events, &event.Context{Kind: event.KindCallDecided, Trigger: call.Trigger},
		event.Call{Decision: verdict.Decision, Reason: string(verdict.Reason)})
	s.logger.Debug("outgoing call evaluated", "trigger", call.Trigger, "decision", verdict.Decision, "reason", verdict.Reason)

	if verdict.Decision == model.DecisionIntercept {
		verdict.SessionID = sessionID
		s.activator.Activate(ctx, model.Activation{
			Mode:           model.ModeCall,
			RedialRequired: call.Trigger.RedialRequired(),
			SessionID:      sessionID,
		})
	}
	return verdict, nil
}

// Resolve handles the outcome of a confirmation session. It releases the
// pending call owned by the session and, on a confirmed call that the
// trigger prevented outright, arms the bypass and places the call again.
func (s *Service) Resolve(ctx context.Context, resolution *model.Resolution) {
	if resolution == nil || resolution.Mode != model.ModeCall {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "intercept.resolve")
	var err error
	defer func() {
		span.WithAttributes(map[string]string{"outcome": string(resolution.Outcome)})
		tracing.EndSpan(span, err)
	}()

	var (
		taken    *pending.Pending
		armedAt  time.Time
		redial   bool
		dialable bool
	)
	_ = s.store.Transact(func(st *pending.State) error {
		p, ok := st.TakePending(resolution.SessionID)
		if !ok {
			return nil
		}
		taken = p
		if !resolution.Confirmed() {
			return nil
		}
		redial = p.RedialRequired || resolution.RedialRequired
		dialable = model.Digits(p.Number) != ""
		if redial || dialable {
			armedAt = s.clock.Now()
			st.ArmBypass(armedAt, s.bypassTTL)
		}
		return nil
	})
	if taken == nil {
		s.logger.Debug("resolution without pending call", "session", resolution.SessionID, "outcome", resolution.Outcome)
		return
	}
	s.progress.Update(progress.OutcomeDelta(resolution.Outcome))
	if !resolution.Confirmed() || redial || !dialable {
		return
	}

	err = s.dialer.Dial(ctx, taken.Number)
	if err != nil {
		// the confirmed call never reached a trigger; don't let the bypass
		// wait for an unrelated one
		_ = s.store.Transact(func(st *pending.State) error {
			if st.Bypass != nil && st.Bypass.ArmedAt.Equal(armedAt) {
				st.ClearBypass()
			}
			return nil
		})
		s.progress.Update(progress.Delta{PlaceFailed: 1})
		s.logger.Info("confirmed call not placed", "error", err)
		event.Emit(ctx, s.events, &event.Context{Kind: event.KindCallPlaced, Trigger: taken.Trigger, SessionID: resolution.SessionID},
			event.Call{Error: err.Error()})
		return
	}
	s.progress.Update(progress.Delta{Placed: 1})
	event.Emit(ctx, s.events, &event.Context{Kind: event.KindCallPlaced, Trigger: taken.Trigger, SessionID: resolution.SessionID},
		event.Call{Decision: model.DecisionAllow, Reason: string(ReasonBypass)})
}

// Pending returns the call awaiting confirmation, if any.
func (s *Service) Pending() (pending.Pending, bool) {
	return s.store.Pending()
}

func (s *Service) inPocket() bool {
	if s.presence == nil {
		return false
	}
	return s.presence.InPocket()
}
