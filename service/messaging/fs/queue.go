package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"

	"github.com/viant/pocketguard/service/messaging"
)

// MessageState represents the state of a journaled message.
type MessageState string

const (
	MessageStatePending   MessageState = "pending"
	MessageStateCompleted MessageState = "completed"
	MessageStateFailed    MessageState = "failed"
)

// Message is a journaled message.
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack records the message as completed.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.store(context.Background(), m.queue.completedDir, m)
}

// Nack returns the message to the pending directory until MaxRetries is
// exceeded, then parks it in the failed directory.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	if m.Retries > m.queue.config.MaxRetries {
		m.State = MessageStateFailed
		return m.queue.store(context.Background(), m.queue.failedDir, m)
	}
	m.State = MessageStatePending
	return m.queue.store(context.Background(), m.queue.pendingDir, m)
}

// Config holds configuration for the file journal.
type Config struct {
	BasePath     string        `json:"basePath" yaml:"basePath"`
	MaxRetries   int           `json:"maxRetries" yaml:"maxRetries"`
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
}

// DefaultConfig returns a default journal configuration
func DefaultConfig() Config {
	return Config{
		BasePath:     filepath.Join(os.TempDir(), "pocketguard", "journal"),
		MaxRetries:   3,
		PollInterval: 100 * time.Millisecond,
	}
}

// Queue is a messaging.Queue persisting every message as a JSON file, so a
// run can be inspected or consumed after the fact. Files are consumed in
// publication order.
type Queue[T any] struct {
	fs           afs.Service
	config       Config
	pendingDir   string
	completedDir string
	failedDir    string
	seq          atomic.Int64
	mu           sync.Mutex
}

// NewQueue creates a file journal under config.BasePath.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	q := &Queue[T]{
		fs:           fs,
		config:       config,
		pendingDir:   path.Join(config.BasePath, string(MessageStatePending)),
		completedDir: path.Join(config.BasePath, string(MessageStateCompleted)),
		failedDir:    path.Join(config.BasePath, string(MessageStateFailed)),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.completedDir, q.failedDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes t to the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := time.Now()
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// sortable names keep consumption in publication order
	message.name = fmt.Sprintf("%019d-%06d-%s.json", now.UnixNano(), q.seq.Add(1)%1000000, message.ID)
	return q.store(ctx, q.pendingDir, message)
}

// Consume takes the oldest pending message, polling until one is available
// or ctx is done.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()
	for {
		message, err := q.next(ctx)
		if err != nil {
			return nil, err
		}
		if message != nil {
			return message, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Pending returns the number of messages awaiting consumption.
func (q *Queue[T]) Pending(ctx context.Context) (int, error) {
	objects, err := q.list(ctx, q.pendingDir)
	return len(objects), err
}

// Completed returns the acknowledged messages in publication order.
func (q *Queue[T]) Completed(ctx context.Context) ([]*Message[T], error) {
	objects, err := q.list(ctx, q.completedDir)
	if err != nil {
		return nil, err
	}
	var ret []*Message[T]
	for _, object := range objects {
		message, err := q.read(ctx, object.URL())
		if err != nil {
			return nil, err
		}
		ret = append(ret, message)
	}
	return ret, nil
}

func (q *Queue[T]) next(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.list(ctx, q.pendingDir)
	if err != nil || len(objects) == 0 {
		return nil, err
	}
	object := objects[0]
	message, err := q.read(ctx, object.URL())
	if err != nil {
		_ = q.fs.Move(ctx, object.URL(), path.Join(q.failedDir, "invalid-"+object.Name()))
		return nil, err
	}
	if err = q.fs.Delete(ctx, object.URL()); err != nil {
		return nil, fmt.Errorf("failed to take message %s: %w", object.Name(), err)
	}
	message.name = object.Name()
	message.queue = q
	return message, nil
}

func (q *Queue[T]) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var ret []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			ret = append(ret, object)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name() < ret[j].Name() })
	return ret, nil
}

func (q *Queue[T]) store(ctx context.Context, dir string, message *Message[T]) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.fs.Upload(ctx, path.Join(dir, message.name), file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
