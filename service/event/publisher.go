package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/pocketguard/service/messaging"
)

// Publisher publishes typed events; every event is also mirrored to the
// untyped stream when one is attached.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

// Publish publishes event on the typed stream and mirrors it to the untyped
// one. A failed mirror does not stop the typed publish; both errors are
// returned.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = time.Now()
	var mirrorErr error
	if p.anyQueue != nil {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			mirrorErr = fmt.Errorf("mirror event: %w", err)
		}
	}
	return errors.Join(mirrorErr, p.queue.Publish(ctx, event))
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
