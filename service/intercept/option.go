package intercept

import (
	"log/slog"
	"time"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/progress"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
)

// Option configures a Service.
type Option func(s *Service)

// WithPolicy sets the feature flag provider.
func WithPolicy(provider policy.Provider) Option {
	return func(s *Service) { s.policy = provider }
}

// WithPresence sets the pocket presence signal consulted by the
// "only when in pocket" flag.
func WithPresence(presence Presence) Option {
	return func(s *Service) { s.presence = presence }
}

// WithDialer sets the call placing capability.
func WithDialer(dialer device.Dialer) Option {
	return func(s *Service) { s.dialer = dialer }
}

// WithCooldown sets how long the heuristic trigger stays suppressed after an
// interception.
func WithCooldown(cooldown time.Duration) Option {
	return func(s *Service) {
		if cooldown >= 0 {
			s.cooldown = cooldown
		}
	}
}

// WithBypassTTL bounds how long a confirmed call may take to reach the next
// evaluation. Zero disables expiry.
func WithBypassTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.bypassTTL = ttl
		}
	}
}

// WithEmergencyNumbers adds numbers to the emergency allow-list. The default
// numbers always stay allowed.
func WithEmergencyNumbers(numbers ...string) Option {
	return func(s *Service) {
		s.emergency = DefaultEmergencyNumbers.With(numbers...)
	}
}

// WithClock sets the time source.
func WithClock(now clock.Func) Option {
	return func(s *Service) { s.clock = now }
}

// WithProgress sets the outcome tracker.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) { s.progress = tracker }
}

// WithEventService sets the event service.
func WithEventService(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
