package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/pocketguard/model"
)

// Delta represents an incremental counter change.
type Delta struct {
	Allowed     int
	Intercepted int
	Suppressed  int
	Confirmed   int
	Cancelled   int
	Placed      int
	PlaceFailed int
}

// DecisionDelta returns the delta recording one decision.
func DecisionDelta(decision model.Decision) Delta {
	switch decision {
	case model.DecisionIntercept:
		return Delta{Intercepted: 1}
	case model.DecisionSuppress:
		return Delta{Suppressed: 1}
	default:
		return Delta{Allowed: 1}
	}
}

// OutcomeDelta returns the delta recording one resolved call session.
func OutcomeDelta(outcome model.Outcome) Delta {
	if outcome == model.OutcomeCompleted {
		return Delta{Confirmed: 1}
	}
	return Delta{Cancelled: 1}
}

// Progress keeps aggregated counters. It is safe for concurrent use.
type Progress struct {
	StartedAt time.Time

	Allowed     int
	Intercepted int
	Suppressed  int
	Confirmed   int
	Cancelled   int
	Placed      int
	PlaceFailed int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker; onChange may be nil.
func New(onChange func(Progress)) *Progress {
	return &Progress{StartedAt: time.Now(), onChange: onChange}
}

// Update applies the supplied delta to the tracker.  It is safe to call from
// multiple goroutines.  If an onChange callback has been registered it will be
// invoked with a copy of the updated tracker outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.Allowed += d.Allowed
	p.Intercepted += d.Intercepted
	p.Suppressed += d.Suppressed
	p.Confirmed += d.Confirmed
	p.Cancelled += d.Cancelled
	p.Placed += d.Placed
	p.PlaceFailed += d.PlaceFailed

	snapshot := p.copy()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		StartedAt:   p.StartedAt,
		Allowed:     p.Allowed,
		Intercepted: p.Intercepted,
		Suppressed:  p.Suppressed,
		Confirmed:   p.Confirmed,
		Cancelled:   p.Cancelled,
		Placed:      p.Placed,
		PlaceFailed: p.PlaceFailed,
	}
}

// OnChange registers a callback that is invoked after every successful
// Update.  Passing nil disables the callback.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds tr in a derived context.
func WithTracker(ctx context.Context, tr *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tr)
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx is a convenience wrapper that looks up the tracker in ctx and
// applies the delta if found.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
