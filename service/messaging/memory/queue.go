package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/pocketguard/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// QueueBuffer bounds the number of undelivered messages.
	QueueBuffer int
	// DropOldest evicts the oldest message instead of rejecting a new one
	// when the buffer is full.
	DropOldest bool
	// MaxRetries bounds how many times a nacked message is re-queued.
	MaxRetries int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 256,
		DropOldest:  true,
		MaxRetries:  1,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	mu         sync.Mutex
	processed  bool
	createdAt  time.Time
}

// ID returns the message identifier.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack re-queues the message while retries remain; afterwards it is dropped.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if m.retryCount >= m.queue.config.MaxRetries {
		m.queue.dropped.Add(1)
		return nil
	}
	retry := &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      m.queue,
		retryCount: m.retryCount + 1,
		createdAt:  time.Now(),
	}
	return m.queue.enqueue(retry)
}

// Queue implements a bounded, non-blocking in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mu       sync.Mutex
	dropped  atomic.Int64
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue without blocking.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("nil payload")
	}
	return q.enqueue(&Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		queue:     q,
		createdAt: time.Now(),
	})
}

func (q *Queue[T]) enqueue(msg *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case q.messages <- msg:
		return nil
	default:
	}
	if !q.config.DropOldest {
		q.dropped.Add(1)
		return messaging.ErrQueueFull
	}
	select {
	case <-q.messages:
		q.dropped.Add(1)
	default:
	}
	select {
	case q.messages <- msg:
		return nil
	default:
		q.dropped.Add(1)
		return messaging.ErrQueueFull
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain removes and returns every message currently queued.
func (q *Queue[T]) Drain() []*T {
	var ret []*T
	for {
		select {
		case msg := <-q.messages:
			_ = msg.Ack()
			ret = append(ret, msg.T())
		default:
			return ret
		}
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns how many messages were discarded because the queue was full
// or retries were exhausted.
func (q *Queue[T]) Dropped() int {
	return int(q.dropped.Load())
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
