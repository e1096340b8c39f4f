package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type payload struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

func newQueue(t *testing.T, maxRetries int) *Queue[payload] {
	t.Helper()
	queue, err := NewQueue[payload](afs.New(), Config{BasePath: t.TempDir(), MaxRetries: maxRetries, PollInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	return queue
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := newQueue(t, 1)
	input := []payload{{Kind: "pocket.entered", Count: 1}, {Kind: "call.decided", Count: 2}, {Kind: "session.resolved", Count: 3}}
	for i := range input {
		require.NoError(t, queue.Publish(ctx, &input[i]))
	}
	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pending)

	for _, expected := range input {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, expected, *message.T())
		require.NoError(t, message.Ack())
		assert.Error(t, message.Ack())
	}
	completed, err := queue.Completed(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 3)
	assert.EqualValues(t, MessageStateCompleted, completed[0].State)
}

func TestQueue_Nack(t *testing.T) {
	ctx := context.Background()
	queue := newQueue(t, 1)
	require.NoError(t, queue.Publish(ctx, &payload{Kind: "call.placed"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("boom")))

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, message.(*Message[payload]).Retries)
	require.NoError(t, message.Nack(errors.New("boom")))

	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending)
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := newQueue(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	message, err := queue.Consume(ctx)
	assert.Nil(t, message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
