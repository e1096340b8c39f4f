package pocketguard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/progress"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
	"github.com/viant/pocketguard/service/intercept"
	"github.com/viant/pocketguard/service/messaging/memory"
	"github.com/viant/pocketguard/service/pending"
	"github.com/viant/pocketguard/service/pocket"
	"github.com/viant/pocketguard/service/slider"
)

// Service wires the pocket detector, the call coordinator and the slider
// around one shared pending store.
type Service struct {
	config   *Config
	policy   policy.Provider
	locker   device.Locker
	dialer   device.Dialer
	clock    clock.Func
	events   *event.Service
	progress *progress.Progress
	logger   *slog.Logger

	store       *pending.Store
	detector    *pocket.Detector
	surface     *slider.Surface
	coordinator *intercept.Service

	mu        sync.Mutex
	started   bool
	detecting atomic.Bool
}

// New creates a guard. Detection stays off until Start.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.policy == nil {
		s.policy = policy.NewStore(policy.FromConfig(&s.config.Policy))
	}
	if s.locker == nil {
		s.locker = device.Nop{}
	}
	if s.dialer == nil {
		s.dialer = device.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.progress == nil {
		s.progress = progress.New(nil)
	}
	if s.events == nil {
		queueConfig := memory.DefaultConfig()
		queueConfig.QueueBuffer = s.config.Events.QueueBuffer
		s.events = event.New(event.WithQueueConfig(queueConfig), event.WithLogger(s.logger))
	}

	s.store = pending.New()
	s.surface = slider.New(
		slider.WithCompletionThreshold(s.config.Slider.CompletionThreshold),
		slider.WithActivationRegion(s.config.Slider.ActivationRegion),
		slider.WithAbandonGrace(s.config.Slider.AbandonGrace),
		slider.WithClock(s.clock),
		slider.WithEventService(s.events),
		slider.WithLogger(s.logger.With("component", "slider")),
	)
	var unavailable []model.SensorKind
	if !s.config.Pocket.ProximityAvailable {
		unavailable = append(unavailable, model.SensorProximity)
	}
	if !s.config.Pocket.LightAvailable {
		unavailable = append(unavailable, model.SensorLight)
	}
	s.detector = pocket.New(
		pocket.WithLightThreshold(s.config.Pocket.LightThresholdLux),
		pocket.WithUnavailable(unavailable...),
		pocket.WithPolicy(s.policy),
		pocket.WithLocker(s.locker),
		pocket.WithActivator(s.surface),
		pocket.WithEventService(s.events),
		pocket.WithLogger(s.logger.With("component", "pocket")),
	)
	s.coordinator = intercept.New(s.store, s.surface,
		intercept.WithPolicy(s.policy),
		intercept.WithPresence(s),
		intercept.WithDialer(s.dialer),
		intercept.WithClock(s.clock),
		intercept.WithCooldown(s.config.Interception.Cooldown),
		intercept.WithBypassTTL(s.config.Interception.BypassTTL),
		intercept.WithEmergencyNumbers(s.config.Interception.EmergencyNumbers...),
		intercept.WithProgress(s.progress),
		intercept.WithEventService(s.events),
		intercept.WithLogger(s.logger.With("component", "intercept")),
	)
	s.surface.SetResolver(s.coordinator.Resolve)
	return nil
}

// Start starts the guard. Pocket detection runs only while the policy has a
// feature that needs it; call Refresh after the policy changes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.refresh(ctx)
	return nil
}

// Refresh starts or stops pocket detection to match the current policy. It
// suits a settings change hook such as file.WithOnChange.
func (s *Service) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) {
	want := s.started && policy.Resolve(ctx, s.policy).NeedsPocketDetection()
	if s.detecting.Load() == want {
		return
	}
	s.detector.Reset()
	s.detecting.Store(want)
	s.logger.Debug("pocket detection switched", "running", want)
}

// Stop stops the guard; InPocket reports false until detection runs again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.refresh(context.Background())
}

// Close stops the guard and its event streams.
func (s *Service) Close() {
	s.Stop()
	s.events.Close()
}

// Running reports whether pocket detection runs.
func (s *Service) Running() bool {
	return s.detecting.Load()
}

// OnSample forwards a sensor sample to the detector.
func (s *Service) OnSample(ctx context.Context, sample model.Sample) pocket.Transition {
	if !s.detecting.Load() {
		return pocket.TransitionNone
	}
	return s.detector.OnSample(ctx, sample)
}

// InPocket reports whether the device is in a pocket. It is false while
// detection is stopped.
func (s *Service) InPocket() bool {
	return s.detecting.Load() && s.detector.InPocket()
}

// Evaluate decides the fate of an outgoing call reported by a trigger.
func (s *Service) Evaluate(ctx context.Context, call model.Call) (intercept.Verdict, error) {
	return s.coordinator.Evaluate(ctx, call)
}

// Pending returns the call awaiting confirmation, if any.
func (s *Service) Pending() (pending.Pending, bool) {
	return s.store.Pending()
}

// Policy returns the feature flags in effect.
func (s *Service) Policy() *policy.Policy {
	return s.policy.Policy()
}

func (s *Service) Config() *Config {
	return s.config
}

func (s *Service) Coordinator() *intercept.Service {
	return s.coordinator
}

func (s *Service) Surface() *slider.Surface {
	return s.surface
}

func (s *Service) Detector() *pocket.Detector {
	return s.detector
}

func (s *Service) Events() *event.Service {
	return s.events
}

func (s *Service) Progress() *progress.Progress {
	return s.progress
}
