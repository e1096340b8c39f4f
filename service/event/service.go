package event

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/viant/pocketguard/service/messaging"
	"github.com/viant/pocketguard/service/messaging/memory"
)

// Service fans events out to an untyped stream and to per-payload-type
// streams. All methods are safe on a nil *Service, which discards events.
type Service struct {
	publisher       *Publisher[any]
	anyQueue        *memory.Queue[Event[any]]
	listener        *Listener[any]
	typedPublishers map[reflect.Type]any
	typedListener   map[reflect.Type]any
	mux             *sync.RWMutex
	queueConfig     memory.Config
	journal         messaging.Queue[Event[any]]
	logger          *slog.Logger
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
		queueConfig:     memory.DefaultConfig(),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.anyQueue = memory.NewQueue[Event[any]](ret.queueConfig)
	ret.publisher = NewPublisher[any](ret.anyQueue)
	return ret
}

// Emit publishes data of kind described by eCtx. Delivery failures are
// logged and never returned: events are observational.
func Emit[T any](ctx context.Context, s *Service, eCtx *Context, data T) {
	if s == nil {
		return
	}
	publisher := PublisherOf[T](s)
	event := NewEvent(eCtx, data)
	if err := publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event dropped", "kind", eCtx.Kind, "error", err)
	}
	if s.journal != nil {
		entry := &Event[any]{Context: event.Context, CreatedAt: event.CreatedAt, Metadata: event.Metadata, Data: event.Data}
		if err := s.journal.Publish(ctx, entry); err != nil {
			s.logger.Warn("event not journaled", "kind", eCtx.Kind, "error", err)
		}
	}
}

// SetListener starts handler on the untyped stream, replacing any previous
// listener.
func (s *Service) SetListener(ctx context.Context, handler func(*Event[any])) {
	if s == nil {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start(ctx)
}

// Drain returns every event waiting on the untyped stream. It must not be
// combined with SetListener.
func (s *Service) Drain() []*Event[any] {
	if s == nil {
		return nil
	}
	return s.anyQueue.Drain()
}

// Close stops all listeners.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, l := range s.typedListener {
		l.(interface{ Stop() }).Stop()
		delete(s.typedListener, key)
	}
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf starts handler on the stream of payload type T.
func SetListenerOf[T any](ctx context.Context, s *Service, handler func(*Event[T])) {
	if s == nil {
		return
	}
	key := keyOf[T]()
	publisher := PublisherOf[T](s)
	listener := NewListener[T](publisher, handler, s.logger)
	s.mux.Lock()
	if prev, ok := s.typedListener[key]; ok {
		prev.(*Listener[T]).Stop()
	}
	s.typedListener[key] = listener
	listener.Start(ctx)
	s.mux.Unlock()
}

// PublisherOf returns the publisher for payload type T.
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T])
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](memory.NewQueue[Event[T]](s.queueConfig))
	publisher.anyQueue = s.anyQueue
	s.typedPublishers[key] = publisher
	return publisher
}
