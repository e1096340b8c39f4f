package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/pocketguard/model"
)

func TestProgress_Update(t *testing.T) {
	var last Progress
	tracker := New(func(p Progress) { last = p })

	tracker.Update(DecisionDelta(model.DecisionIntercept))
	tracker.Update(DecisionDelta(model.DecisionSuppress))
	tracker.Update(DecisionDelta(model.DecisionAllow))
	tracker.Update(OutcomeDelta(model.OutcomeCompleted))
	tracker.Update(OutcomeDelta(model.OutcomeAbandoned))
	tracker.Update(Delta{Placed: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.Intercepted)
	assert.Equal(t, 1, snapshot.Suppressed)
	assert.Equal(t, 1, snapshot.Allowed)
	assert.Equal(t, 1, snapshot.Confirmed)
	assert.Equal(t, 1, snapshot.Cancelled)
	assert.Equal(t, 1, snapshot.Placed)
	assert.Equal(t, 1, last.Placed)
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Allowed: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tracker.Snapshot().Allowed)
}

func TestProgress_Context(t *testing.T) {
	tracker := New(nil)
	ctx := WithTracker(context.Background(), tracker)
	UpdateCtx(ctx, Delta{Suppressed: 2})
	UpdateCtx(context.Background(), Delta{Suppressed: 5})
	assert.Equal(t, 2, tracker.Snapshot().Suppressed)

	var nilTracker *Progress
	assert.NotPanics(t, func() { nilTracker.Update(Delta{Allowed: 1}) })
}
