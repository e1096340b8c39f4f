package pocketguard

import (
	"log/slog"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/progress"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
)

// Option configures a Service.
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithPolicyProvider sets the live feature flag source. Without it the flags
// of the configuration are used.
func WithPolicyProvider(provider policy.Provider) Option {
	return func(s *Service) { s.policy = provider }
}

// WithLocker sets the device lock capability.
func WithLocker(locker device.Locker) Option {
	return func(s *Service) { s.locker = locker }
}

// WithDialer sets the call placing capability.
func WithDialer(dialer device.Dialer) Option {
	return func(s *Service) { s.dialer = dialer }
}

// WithClock sets the time source shared by every component.
func WithClock(now clock.Func) Option {
	return func(s *Service) { s.clock = now }
}

// WithEventService sets the event service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) { s.events = service }
}

// WithProgress sets the outcome tracker.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) { s.progress = tracker }
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
