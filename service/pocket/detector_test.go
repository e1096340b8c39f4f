package pocket

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
)

type recordingActivator struct {
	mu          sync.Mutex
	activations []model.Activation
}

func (r *recordingActivator) Activate(ctx context.Context, activation model.Activation) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activations = append(r.activations, activation)
	return "session"
}

func (r *recordingActivator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.activations)
}

var (
	near = model.Sample{Kind: model.SensorProximity, Value: 0, MaxRange: 5}
	far  = model.Sample{Kind: model.SensorProximity, Value: 5, MaxRange: 5}
	dark = model.Sample{Kind: model.SensorLight, Value: 2}
	lit  = model.Sample{Kind: model.SensorLight, Value: 300}
)

func TestDetector_OnSample(t *testing.T) {
	type testCase struct {
		name        string
		samples     []model.Sample
		transitions []Transition
		inPocket    bool
	}

	tests := []testCase{
		{
			name:        "enter pocket",
			samples:     []model.Sample{near, dark},
			transitions: []Transition{TransitionNone, TransitionEntered},
			inPocket:    true,
		},
		{
			name:        "enter pocket light first",
			samples:     []model.Sample{dark, near},
			transitions: []Transition{TransitionNone, TransitionEntered},
			inPocket:    true,
		},
		{
			name:        "repeated samples in pocket",
			samples:     []model.Sample{near, dark, dark, near, dark},
			transitions: []Transition{TransitionNone, TransitionEntered, TransitionNone, TransitionNone, TransitionNone},
			inPocket:    true,
		},
		{
			name:        "leave and re-enter",
			samples:     []model.Sample{near, dark, lit, dark},
			transitions: []Transition{TransitionNone, TransitionEntered, TransitionLeft, TransitionEntered},
			inPocket:    true,
		},
		{
			name:        "proximity only",
			samples:     []model.Sample{near, near},
			transitions: []Transition{TransitionNone, TransitionNone},
		},
		{
			name:        "light threshold is exclusive",
			samples:     []model.Sample{near, {Kind: model.SensorLight, Value: DefaultLightThresholdLux}},
			transitions: []Transition{TransitionNone, TransitionNone},
		},
		{
			name:        "proximity at max range is far",
			samples:     []model.Sample{dark, far},
			transitions: []Transition{TransitionNone, TransitionNone},
		},
		{
			name:        "unknown sensor ignored",
			samples:     []model.Sample{near, dark, {Kind: "accelerometer", Value: 1}},
			transitions: []Transition{TransitionNone, TransitionEntered, TransitionNone},
			inPocket:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			detector := New()
			var actual []Transition
			for _, sample := range tc.samples {
				actual = append(actual, detector.OnSample(context.Background(), sample))
			}
			assert.EqualValues(t, tc.transitions, actual)
			assert.Equal(t, tc.inPocket, detector.InPocket())
		})
	}
}

func TestDetector_Unavailable(t *testing.T) {
	type testCase struct {
		name        string
		unavailable model.SensorKind
	}

	for _, tc := range []testCase{
		{name: "no proximity", unavailable: model.SensorProximity},
		{name: "no light", unavailable: model.SensorLight},
	} {
		t.Run(tc.name, func(t *testing.T) {
			detector := New(WithUnavailable(tc.unavailable))
			for _, sample := range []model.Sample{near, dark, near, dark} {
				assert.Equal(t, TransitionNone, detector.OnSample(context.Background(), sample))
			}
			assert.False(t, detector.InPocket())
		})
	}
}

func TestDetector_Reaction(t *testing.T) {
	type testCase struct {
		name              string
		policy            policy.Static
		canLock           bool
		expectLocks       int
		expectActivations int
		expectLockEvent   bool
	}

	tests := []testCase{
		{
			name:              "unlock slider",
			policy:            policy.Static{AntiPocket: true},
			expectActivations: 1,
		},
		{
			name:            "lock instead of slider",
			policy:          policy.Static{AntiPocket: true, LockWhenInPocket: true},
			canLock:         true,
			expectLocks:     1,
			expectLockEvent: true,
		},
		{
			name:            "lock without privilege does not fall back to slider",
			policy:          policy.Static{AntiPocket: true, LockWhenInPocket: true},
			canLock:         false,
			expectLockEvent: true,
		},
		{
			name:   "anti pocket disabled",
			policy: policy.Static{LockWhenInPocket: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := device.NewRecorder(device.WithLockPrivilege(tc.canLock))
			activator := &recordingActivator{}
			events := event.New()
			detector := New(WithPolicy(tc.policy), WithLocker(recorder), WithActivator(activator), WithEventService(events))

			ctx := context.Background()
			for _, sample := range []model.Sample{near, dark, dark, near} {
				detector.OnSample(ctx, sample)
			}

			assert.Equal(t, tc.expectLocks, recorder.Locks())
			assert.Equal(t, tc.expectActivations, activator.count())
			if tc.expectActivations > 0 {
				assert.Equal(t, model.ModeUnlock, activator.activations[0].Mode)
			}

			var kinds []event.Kind
			for _, e := range events.Drain() {
				kinds = append(kinds, e.Context.Kind)
			}
			assert.Contains(t, kinds, event.KindPocketEntered)
			if tc.expectLockEvent {
				assert.Contains(t, kinds, event.KindDeviceLocked)
			} else {
				assert.NotContains(t, kinds, event.KindDeviceLocked)
			}
		})
	}
}

func TestDetector_Reset(t *testing.T) {
	detector := New()
	ctx := context.Background()
	detector.OnSample(ctx, near)
	assert.Equal(t, TransitionEntered, detector.OnSample(ctx, dark))

	detector.Reset()
	assert.False(t, detector.InPocket())
	assert.EqualValues(t, State{}, detector.State())

	detector.OnSample(ctx, near)
	assert.Equal(t, TransitionEntered, detector.OnSample(ctx, dark), "re-entry after reset")
}
