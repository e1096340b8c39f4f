package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/service/messaging"
	"github.com/viant/pocketguard/service/messaging/memory"
)

func TestService_Emit(t *testing.T) {
	ctx := context.Background()
	srv := New()

	Emit(ctx, srv, &Context{Kind: KindPocketEntered}, Pocket{InPocket: true, ProximityNear: true, LightLow: true})
	Emit(ctx, srv, &Context{Kind: KindCallDecided, Trigger: model.TriggerScreening}, Call{Decision: model.DecisionIntercept})

	events := srv.Drain()
	if !assert.Len(t, events, 2) {
		return
	}
	assert.Equal(t, KindPocketEntered, events[0].Context.Kind)
	assert.EqualValues(t, Pocket{InPocket: true, ProximityNear: true, LightLow: true}, events[0].Data)
	assert.Equal(t, KindCallDecided, events[1].Context.Kind)
	assert.Equal(t, model.TriggerScreening, events[1].Context.Trigger)
}

func TestService_TypedListener(t *testing.T) {
	ctx := context.Background()
	srv := New()
	defer srv.Close()

	var (
		mu       sync.Mutex
		received []Session
	)
	SetListenerOf[Session](ctx, srv, func(e *Event[Session]) {
		mu.Lock()
		received = append(received, e.Data)
		mu.Unlock()
	})

	Emit(ctx, srv, &Context{Kind: KindSessionResolved, SessionID: "s1"}, Session{Outcome: model.OutcomeCompleted})
	Emit(ctx, srv, &Context{Kind: KindPocketLeft}, Pocket{})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, model.OutcomeCompleted, received[0].Outcome)
	mu.Unlock()
}

func TestPublisher_MirrorFull(t *testing.T) {
	ctx := context.Background()
	srv := New(WithQueueConfig(memory.Config{QueueBuffer: 1}))

	require.NoError(t, PublisherOf[Pocket](srv).Publish(ctx, NewEvent(&Context{Kind: KindPocketEntered}, Pocket{InPocket: true})))

	calls := PublisherOf[Call](srv)
	err := calls.Publish(ctx, NewEvent(&Context{Kind: KindCallDecided}, Call{Decision: model.DecisionIntercept}))
	assert.ErrorIs(t, err, messaging.ErrQueueFull, "a full untyped stream is reported")
	assert.EqualValues(t, 1, srv.anyQueue.Dropped())

	typed, err := calls.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionIntercept, typed.Data.Decision, "typed stream still receives the event")
}

func TestService_Nil(t *testing.T) {
	var srv *Service
	assert.NotPanics(t, func() {
		Emit(context.Background(), srv, &Context{Kind: KindDeviceLocked}, Device{Performed: true})
		assert.Nil(t, srv.Drain())
		srv.Close()
	})
}

func TestService_Journal(t *testing.T) {
	ctx := context.Background()
	journal := memory.NewQueue[Event[any]](memory.DefaultConfig())
	srv := New(WithJournal(journal))

	Emit(ctx, srv, &Context{Kind: KindDeviceLocked}, Device{Performed: true})
	entries := journal.Drain()
	if !assert.Len(t, entries, 1) {
		return
	}
	assert.Equal(t, KindDeviceLocked, entries[0].Context.Kind)
	assert.EqualValues(t, Device{Performed: true}, entries[0].Data)
}
