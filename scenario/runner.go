package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/viant/pocketguard"
	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/progress"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
	"github.com/viant/pocketguard/service/intercept"
	"github.com/viant/pocketguard/service/messaging"
	"github.com/viant/pocketguard/service/messaging/memory"
)

// Epoch is the simulated time a replay starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// StepResult reports one replayed step.
type StepResult struct {
	Index    int            `json:"index"`
	Action   string         `json:"action"`
	Detail   string         `json:"detail,omitempty"`
	Decision model.Decision `json:"decision,omitempty"`
	Failures []string       `json:"failures,omitempty"`
}

// Report is the outcome of a replay.
type Report struct {
	Name     string            `json:"name"`
	Steps    []*StepResult     `json:"steps"`
	Events   []event.Kind      `json:"events"`
	Dialed   []string          `json:"dialed"`
	Locks    int               `json:"locks"`
	Progress progress.Progress `json:"-"`
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	for _, step := range r.Steps {
		if len(step.Failures) > 0 {
			return false
		}
	}
	return true
}

// Failures returns every failed expectation prefixed with its step.
func (r *Report) Failures() []string {
	var ret []string
	for _, step := range r.Steps {
		for _, failure := range step.Failures {
			ret = append(ret, fmt.Sprintf("step %d (%s): %s", step.Index, step.Action, failure))
		}
	}
	return ret
}

// Option configures a replay.
type Option func(r *replay)

// WithJournal records every event of the replay on queue.
func WithJournal(queue messaging.Queue[event.Event[any]]) Option {
	return func(r *replay) { r.journal = queue }
}

// WithLogger sets the logger handed to the guard.
func WithLogger(logger *slog.Logger) Option {
	return func(r *replay) { r.logger = logger }
}

type replay struct {
	logger   *slog.Logger
	journal  messaging.Queue[event.Event[any]]
	clock    *clock.Fake
	policy   *policy.Store
	recorder *device.Recorder
	service  *pocketguard.Service
}

// Run replays script against a freshly wired guard with simulated time and
// device. Detection is started before the first step.
func Run(ctx context.Context, script *Script, opts ...Option) (*Report, error) {
	if script == nil {
		return nil, errors.New("scenario: nil script")
	}
	r := &replay{logger: slog.Default(), clock: clock.NewFake(Epoch)}
	for _, opt := range opts {
		opt(r)
	}
	config := script.Config
	if config == nil {
		config = pocketguard.DefaultConfig()
	}
	var recorderOptions []device.RecorderOption
	if script.Device.NoLockPrivilege {
		recorderOptions = append(recorderOptions, device.WithLockPrivilege(false))
	}
	if script.Device.DialError != "" {
		recorderOptions = append(recorderOptions, device.WithDialError(errors.New(script.Device.DialError)))
	}
	r.recorder = device.NewRecorder(recorderOptions...)
	r.policy = policy.NewStore(policy.FromConfig(&config.Policy))

	queueConfig := memory.DefaultConfig()
	queueConfig.QueueBuffer = config.Events.QueueBuffer

	var err error
	r.service, err = pocketguard.New(
		pocketguard.WithConfig(config),
		pocketguard.WithPolicyProvider(r.policy),
		pocketguard.WithLocker(r.recorder),
		pocketguard.WithDialer(r.recorder),
		pocketguard.WithClock(r.clock.Func()),
		pocketguard.WithLogger(r.logger),
		pocketguard.WithEventService(event.New(
			event.WithQueueConfig(queueConfig),
			event.WithJournal(r.journal),
			event.WithLogger(r.logger),
		)),
	)
	if err != nil {
		return nil, err
	}
	defer r.service.Close()
	if err = r.service.Start(ctx); err != nil {
		return nil, err
	}

	report := &Report{Name: script.Name}
	for i, step := range script.Steps {
		result := r.apply(ctx, step)
		result.Index = i + 1
		report.Steps = append(report.Steps, result)
		for _, e := range r.service.Events().Drain() {
			report.Events = append(report.Events, e.Context.Kind)
		}
	}
	report.Dialed = r.recorder.Dialed()
	report.Locks = r.recorder.Locks()
	report.Progress = r.service.Progress().Snapshot()
	return report, nil
}

func (r *replay) apply(ctx context.Context, step *Step) *StepResult {
	result := &StepResult{}
	var actions, details []string
	act := func(action, detail string) {
		actions = append(actions, action)
		if detail != "" {
			details = append(details, detail)
		}
	}
	before := r.service.Progress().Snapshot()

	if step.Policy != nil {
		r.policy.Set(policy.FromConfig(step.Policy))
		r.service.Refresh(ctx)
		act("policy", "")
	}
	if step.Stop {
		r.service.Stop()
		act("stop", "")
	}
	if step.Start {
		_ = r.service.Start(ctx)
		act("start", "")
	}
	if step.Advance > 0 {
		r.clock.Advance(step.Advance)
		act("advance", step.Advance.String())
	}
	if step.Sample != nil {
		transition := r.service.OnSample(ctx, *step.Sample)
		act("sample", fmt.Sprintf("%s=%v pocket:%s", step.Sample.Kind, step.Sample.Value, transition))
	}
	if step.Call != nil {
		act("call", r.call(ctx, step.Call))
	}
	if step.Window != nil {
		response := r.service.Coordinator().Observe(ctx, *step.Window)
		act("window", fmt.Sprintf("endCall:%v", response.EndCall))
	}
	if len(step.Slide) > 0 {
		act("slide", r.slide(ctx, step.Slide))
	}
	if step.Release {
		act("release", string(r.service.Surface().Release()))
	}
	if step.Cancel {
		act("cancel", fmt.Sprintf("cancelled:%v", r.service.Surface().Cancel(ctx)))
	}
	if step.Back {
		act("back", fmt.Sprintf("cancelled:%v", r.service.Surface().Back(ctx)))
	}
	if step.Hide {
		r.service.Surface().Hidden()
		act("hide", "")
	}
	if step.Show {
		r.service.Surface().Shown()
		act("show", "")
	}
	if step.CheckAbandoned {
		act("checkAbandoned", fmt.Sprintf("abandoned:%v", r.service.Surface().CheckAbandoned(ctx)))
	}

	result.Decision = decisionOf(before, r.service.Progress().Snapshot())
	if step.Expect != nil {
		act("expect", "")
		result.Failures = r.check(step.Expect, result.Decision)
	}
	result.Action = strings.Join(actions, ",")
	result.Detail = strings.Join(details, "; ")
	return result
}

func (r *replay) call(ctx context.Context, call *model.Call) string {
	coordinator := r.service.Coordinator()
	switch call.Trigger {
	case model.TriggerBroadcast:
		return fmt.Sprintf("broadcast result:%q", coordinator.Broadcast(ctx, call.Number))
	case model.TriggerScreening:
		response := coordinator.Screen(ctx, intercept.ScreeningRequest{Number: call.Number, Outgoing: call.Outgoing()})
		return fmt.Sprintf("screening disallow:%v", response.Disallow)
	case model.TriggerRedirection:
		response := coordinator.Redirect(ctx, call.Number)
		return fmt.Sprintf("redirection cancel:%v", response.Cancel)
	}
	verdict, err := r.service.Evaluate(ctx, *call)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s %s:%s", call.Trigger, verdict.Decision, verdict.Reason)
}

func (r *replay) slide(ctx context.Context, positions []float64) string {
	var state model.SessionState
	for _, position := range positions {
		var err error
		if state, err = r.service.Surface().Update(ctx, position); err != nil {
			return err.Error()
		}
	}
	return string(state)
}

func (r *replay) check(expect *Expect, decision model.Decision) []string {
	var failures []string
	fail := func(name string, expected, actual interface{}) {
		failures = append(failures, fmt.Sprintf("%s: expected %v, got %v", name, expected, actual))
	}
	if expect.Decision != "" && expect.Decision != decision {
		fail("decision", expect.Decision, decision)
	}
	if expect.InPocket != nil && *expect.InPocket != r.service.InPocket() {
		fail("inPocket", *expect.InPocket, r.service.InPocket())
	}
	if expect.Pending != nil {
		_, ok := r.service.Pending()
		if ok != *expect.Pending {
			fail("pending", *expect.Pending, ok)
		}
	}
	session, ok := r.service.Surface().Session()
	if expect.Session != "" && (!ok || session.State != expect.Session) {
		fail("session", expect.Session, session.State)
	}
	if expect.Mode != "" && (!ok || session.Mode != expect.Mode) {
		fail("mode", expect.Mode, session.Mode)
	}
	if expect.Dialed != nil && !reflect.DeepEqual(expect.Dialed, append([]string{}, r.recorder.Dialed()...)) {
		fail("dialed", expect.Dialed, r.recorder.Dialed())
	}
	if expect.Locks != nil && *expect.Locks != r.recorder.Locks() {
		fail("locks", *expect.Locks, r.recorder.Locks())
	}
	return failures
}

// decisionOf infers the decision of a step from the counters it moved.
func decisionOf(before, after progress.Progress) model.Decision {
	switch {
	case after.Intercepted > before.Intercepted:
		return model.DecisionIntercept
	case after.Suppressed > before.Suppressed:
		return model.DecisionSuppress
	case after.Allowed > before.Allowed:
		return model.DecisionAllow
	}
	return ""
}
