package pocket

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
)

// DefaultLightThresholdLux is typical pocket darkness.
const DefaultLightThresholdLux = 10.0

// Activator starts a confirmation session and returns its id.
type Activator interface {
	Activate(ctx context.Context, activation model.Activation) string
}

// Transition is the edge produced by one evaluation.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionEntered
	TransitionLeft
)

func (t Transition) String() string {
	switch t {
	case TransitionEntered:
		return "entered"
	case TransitionLeft:
		return "left"
	}
	return "none"
}

// State is a snapshot of the detector's signals.
type State struct {
	ProximityNear bool `json:"proximityNear"`
	LightLow      bool `json:"lightLow"`
	InPocket      bool `json:"inPocket"`
}

// Detector fuses proximity and light samples into pocket presence.
type Detector struct {
	lightThreshold     float64
	proximityAvailable bool
	lightAvailable     bool

	policy    policy.Provider
	locker    device.Locker
	activator Activator
	events    *event.Service
	logger    *slog.Logger

	mu            sync.Mutex
	proximityNear bool
	lightLow      bool
	previous      bool
	inPocket      atomic.Bool
}

// New creates a detector.
func New(opts ...Option) *Detector {
	ret := &Detector{
		lightThreshold:     DefaultLightThresholdLux,
		proximityAvailable: true,
		lightAvailable:     true,
		locker:             device.Nop{},
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// InPocket reports the current stable pocket state. It is safe to call from
// any goroutine.
func (d *Detector) InPocket() bool {
	return d.inPocket.Load()
}

// State returns a snapshot of the sub-signals.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{ProximityNear: d.proximityNear, LightLow: d.lightLow, InPocket: d.previous}
}

// OnSample updates the sub-signal of sample.Kind, re-evaluates the pocket
// state and reacts to a pocket entry.
func (d *Detector) OnSample(ctx context.Context, sample model.Sample) Transition {
	d.mu.Lock()
	switch sample.Kind {
	case model.SensorProximity:
		if d.proximityAvailable {
			// proximity sensors are mostly binary: anything below max range is near
			d.proximityNear = sample.Value < sample.MaxRange
		}
	case model.SensorLight:
		if d.lightAvailable {
			d.lightLow = sample.Value < d.lightThreshold
		}
	default:
		d.mu.Unlock()
		d.logger.Debug("unknown sensor sample", "kind", sample.Kind)
		return TransitionNone
	}
	current := d.proximityNear && d.lightLow
	transition := TransitionNone
	switch {
	case current && !d.previous:
		transition = TransitionEntered
	case !current && d.previous:
		transition = TransitionLeft
	}
	d.previous = current
	d.inPocket.Store(current)
	state := event.Pocket{InPocket: current, ProximityNear: d.proximityNear, LightLow: d.lightLow}
	d.mu.Unlock()

	switch transition {
	case TransitionEntered:
		event.Emit(ctx, d.events, &event.Context{Kind: event.KindPocketEntered}, state)
		d.onEntered(ctx)
	case TransitionLeft:
		event.Emit(ctx, d.events, &event.Context{Kind: event.KindPocketLeft}, state)
	}
	return transition
}

// Reset forgets both sub-signals, for example when detection is stopped.
// The detector reports "not in pocket" until new samples arrive.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.proximityNear = false
	d.lightLow = false
	d.previous = false
	d.inPocket.Store(false)
}

func (d *Detector) onEntered(ctx context.Context) {
	p := policy.Resolve(ctx, d.policy)
	if !p.AntiPocket {
		return
	}
	if p.LockWhenInPocket {
		performed := d.locker.Lock()
		if !performed {
			d.logger.Info("device lock not performed", "reason", "lock privilege not granted")
		}
		event.Emit(ctx, d.events, &event.Context{Kind: event.KindDeviceLocked}, event.Device{Performed: performed})
		return
	}
	if d.activator == nil {
		d.logger.Warn("pocket entered without confirmation surface")
		return
	}
	sessionID := d.activator.Activate(ctx, model.Activation{Mode: model.ModeUnlock})
	d.logger.Debug("unlock confirmation requested", "session", sessionID)
}
