package event

import (
	"log/slog"

	"github.com/viant/pocketguard/service/messaging"
	"github.com/viant/pocketguard/service/messaging/memory"
)

type Option func(s *Service)

// WithQueueConfig sets the configuration of every queue created by the
// service.
func WithQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = config
	}
}

// WithLogger sets the logger used by listeners.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithJournal additionally records every emitted event on queue, typically a
// durable one.
func WithJournal(queue messaging.Queue[Event[any]]) Option {
	return func(s *Service) {
		s.journal = queue
	}
}
