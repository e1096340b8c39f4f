package slider

import (
	"log/slog"
	"time"

	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/service/event"
)

// Option configures a Surface.
type Option func(s *Surface)

// WithCompletionThreshold sets the fraction of travel that completes a slide.
func WithCompletionThreshold(threshold float64) Option {
	return func(s *Surface) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithActivationRegion sets how far from the start a drag may begin.
func WithActivationRegion(region float64) Option {
	return func(s *Surface) {
		if region > 0 && region <= 1 {
			s.region = region
		}
	}
}

// WithAbandonGrace sets how long the surface may stay hidden before the
// session counts as abandoned.
func WithAbandonGrace(grace time.Duration) Option {
	return func(s *Surface) {
		if grace >= 0 {
			s.grace = grace
		}
	}
}

// WithResolver registers the resolution handler.
func WithResolver(resolver Resolver) Option {
	return func(s *Surface) { s.resolver = resolver }
}

// WithClock sets the time source.
func WithClock(now clock.Func) Option {
	return func(s *Surface) { s.clock = now }
}

// WithEventService sets the event service.
func WithEventService(events *event.Service) Option {
	return func(s *Surface) { s.events = events }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) { s.logger = logger }
}
