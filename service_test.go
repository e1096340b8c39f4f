package pocketguard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/pocketguard"
	"github.com/viant/pocketguard/internal/clock"
	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
	"github.com/viant/pocketguard/service/intercept"
	"github.com/viant/pocketguard/service/pocket"
)

var (
	near = model.Sample{Kind: model.SensorProximity, Value: 0, MaxRange: 5}
	far  = model.Sample{Kind: model.SensorProximity, Value: 5, MaxRange: 5}
	dark = model.Sample{Kind: model.SensorLight, Value: 1}
)

func newService(t *testing.T, pol policy.Policy, recorder *device.Recorder) *pocketguard.Service {
	t.Helper()
	fake := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	srv, err := pocketguard.New(
		pocketguard.WithPolicyProvider(policy.NewStore(&pol)),
		pocketguard.WithLocker(recorder),
		pocketguard.WithDialer(recorder),
		pocketguard.WithClock(fake.Func()),
	)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Close)
	return srv
}

func slide(t *testing.T, srv *pocketguard.Service) {
	t.Helper()
	ctx := context.Background()
	state, err := srv.Surface().Update(ctx, 0.05)
	require.NoError(t, err)
	require.EqualValues(t, model.SessionDragging, state)
	state, err = srv.Surface().Update(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, model.SessionCompleted, state)
}

func TestService_InPocketCallConfirmed(t *testing.T) {
	ctx := context.Background()
	recorder := device.NewRecorder()
	srv := newService(t, policy.Policy{SecureCalls: true, OnlyWhenInPocket: true}, recorder)

	assert.EqualValues(t, intercept.RedirectionResponse{PlaceUnmodified: true}, srv.Coordinator().Redirect(ctx, "5551234"))

	srv.OnSample(ctx, near)
	assert.EqualValues(t, pocket.TransitionEntered, srv.OnSample(ctx, dark))
	require.True(t, srv.InPocket())

	assert.EqualValues(t, intercept.RedirectionResponse{Cancel: true}, srv.Coordinator().Redirect(ctx, "5551234"))
	assert.EqualValues(t, "5551234", srv.Coordinator().Broadcast(ctx, "5551234"))
	session, ok := srv.Surface().Session()
	require.True(t, ok)
	assert.EqualValues(t, model.ModeCall, session.Mode)
	assert.EqualValues(t, "Slide to call", session.Prompt())

	slide(t, srv)
	assert.EqualValues(t, []string{"5551234"}, recorder.Dialed())
	_, ok = srv.Pending()
	assert.False(t, ok)

	// the re-placed call passes every trigger once
	assert.EqualValues(t, intercept.RedirectionResponse{PlaceUnmodified: true}, srv.Coordinator().Redirect(ctx, "5551234"))
	assert.EqualValues(t, 1, srv.Progress().Snapshot().Placed)
}

func TestService_AntiPocket(t *testing.T) {
	type testCase struct {
		name    string
		policy  policy.Policy
		locks   int
		session bool
	}

	tests := []testCase{
		{name: "disabled", policy: policy.Policy{LockWhenInPocket: true}},
		{name: "lock", policy: policy.Policy{AntiPocket: true, LockWhenInPocket: true}, locks: 1},
		{name: "unlock slider", policy: policy.Policy{AntiPocket: true}, session: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			recorder := device.NewRecorder()
			srv := newService(t, tc.policy, recorder)
			srv.OnSample(ctx, near)
			srv.OnSample(ctx, dark)
			srv.OnSample(ctx, dark)

			assert.EqualValues(t, tc.locks, recorder.Locks())
			session, ok := srv.Surface().Session()
			assert.EqualValues(t, tc.session, ok)
			if tc.session {
				assert.EqualValues(t, model.ModeUnlock, session.Mode)
				assert.True(t, srv.Surface().Back(ctx))
			}
		})
	}
}

func TestService_UnlockSupersedesCall(t *testing.T) {
	ctx := context.Background()
	recorder := device.NewRecorder()
	srv := newService(t, policy.Policy{SecureCalls: true, AntiPocket: true}, recorder)

	assert.EqualValues(t, "", srv.Coordinator().Broadcast(ctx, "5551234"))
	_, ok := srv.Pending()
	require.True(t, ok)

	srv.OnSample(ctx, near)
	srv.OnSample(ctx, dark)

	_, ok = srv.Pending()
	assert.False(t, ok, "superseded call session releases its call")
	session, _ := srv.Surface().Session()
	assert.EqualValues(t, model.ModeUnlock, session.Mode)

	slide(t, srv)
	assert.Empty(t, recorder.Dialed())
}

func TestService_StartStop(t *testing.T) {
	ctx := context.Background()
	srv, err := pocketguard.New(pocketguard.WithPolicyProvider(policy.NewStore(&policy.Policy{OnlyWhenInPocket: true})))
	require.NoError(t, err)
	defer srv.Close()

	assert.EqualValues(t, pocket.TransitionNone, srv.OnSample(ctx, near))
	require.NoError(t, srv.Start(ctx))
	assert.True(t, srv.Running())
	srv.OnSample(ctx, near)
	srv.OnSample(ctx, dark)
	assert.True(t, srv.InPocket())

	srv.Stop()
	assert.False(t, srv.Running())
	assert.False(t, srv.InPocket())

	require.NoError(t, srv.Start(ctx))
	assert.False(t, srv.InPocket(), "restart forgets previous samples")
	srv.OnSample(ctx, far)
	assert.False(t, srv.InPocket())
}

func TestService_DetectionFollowsPolicy(t *testing.T) {
	ctx := context.Background()
	store := policy.NewStore(&policy.Policy{SecureCalls: true})
	srv, err := pocketguard.New(pocketguard.WithPolicyProvider(store))
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, srv.Start(ctx))
	assert.False(t, srv.Running(), "no feature needs pocket detection")
	assert.EqualValues(t, pocket.TransitionNone, srv.OnSample(ctx, near))
	srv.OnSample(ctx, dark)
	assert.False(t, srv.InPocket())

	store.Set(&policy.Policy{SecureCalls: true, OnlyWhenInPocket: true})
	assert.False(t, srv.Running(), "policy changes apply on refresh")
	srv.Refresh(ctx)
	assert.True(t, srv.Running())
	srv.OnSample(ctx, near)
	srv.OnSample(ctx, dark)
	assert.True(t, srv.InPocket())

	store.Set(&policy.Policy{SecureCalls: true})
	srv.Refresh(ctx)
	assert.False(t, srv.Running())
	assert.False(t, srv.InPocket())

	srv.Stop()
	store.Set(&policy.Policy{AntiPocket: true})
	srv.Refresh(ctx)
	assert.False(t, srv.Running(), "refresh does not start a stopped guard")
}

func TestService_Events(t *testing.T) {
	ctx := context.Background()
	srv := newService(t, policy.Policy{SecureCalls: true}, device.NewRecorder())

	srv.Coordinator().Screen(ctx, intercept.ScreeningRequest{Number: "5551234", Outgoing: true})
	require.True(t, srv.Surface().Cancel(ctx))

	var kinds []event.Kind
	for _, e := range srv.Events().Drain() {
		kinds = append(kinds, e.Context.Kind)
	}
	assert.Contains(t, kinds, event.KindCallDecided)
	assert.Contains(t, kinds, event.KindSessionActivated)
	assert.Contains(t, kinds, event.KindSessionResolved)
	_, ok := srv.Pending()
	assert.False(t, ok)
	assert.EqualValues(t, 1, srv.Progress().Snapshot().Cancelled)
}
