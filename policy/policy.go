package policy

import (
	"context"
	"sync/atomic"
)

// Policy represents the feature flags in effect for a single decision.
//
//   - SecureCalls gates call interception as a whole.
//   - OnlyWhenInPocket limits interception to calls placed while in a pocket.
//   - AntiPocket enables the reaction to the device entering a pocket.
//   - LockWhenInPocket picks that reaction: lock the device instead of showing
//     the unlock slider.
//
// A nil *Policy behaves as the zero value: every feature disabled.
type Policy struct {
	SecureCalls      bool
	OnlyWhenInPocket bool
	AntiPocket       bool
	LockWhenInPocket bool
}

// NeedsPocketDetection reports whether the pocket detector has to run.
func (p *Policy) NeedsPocketDetection() bool {
	if p == nil {
		return false
	}
	return p.OnlyWhenInPocket || p.AntiPocket
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters
// ---------------------------------------------------------------------------

// Config represents the serialisable form of a Policy.
type Config struct {
	SecureCalls      bool `json:"secureCalls,omitempty" yaml:"secureCalls,omitempty" env:"SECURE_CALLS"`
	OnlyWhenInPocket bool `json:"onlyWhenInPocket,omitempty" yaml:"onlyWhenInPocket,omitempty" env:"ONLY_WHEN_IN_POCKET"`
	AntiPocket       bool `json:"antiPocket,omitempty" yaml:"antiPocket,omitempty" env:"ANTI_POCKET"`
	LockWhenInPocket bool `json:"lockWhenInPocket,omitempty" yaml:"lockWhenInPocket,omitempty" env:"LOCK_WHEN_IN_POCKET"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		SecureCalls:      p.SecureCalls,
		OnlyWhenInPocket: p.OnlyWhenInPocket,
		AntiPocket:       p.AntiPocket,
		LockWhenInPocket: p.LockWhenInPocket,
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return &Policy{}
	}
	return &Policy{
		SecureCalls:      c.SecureCalls,
		OnlyWhenInPocket: c.OnlyWhenInPocket,
		AntiPocket:       c.AntiPocket,
		LockWhenInPocket: c.LockWhenInPocket,
	}
}

// ---------------------------------------------------------------------------
// Providers
// ---------------------------------------------------------------------------

// Provider returns the policy currently in effect. Implementations must be
// safe for concurrent use and must never return nil.
type Provider interface {
	Policy() *Policy
}

// Static is a Provider returning a fixed policy.
type Static Policy

// Policy returns a copy of the fixed policy.
func (s Static) Policy() *Policy {
	p := Policy(s)
	return &p
}

// Store is a Provider whose policy can be replaced at runtime, for example
// when the settings file changes.
type Store struct {
	current atomic.Pointer[Policy]
}

// NewStore creates a store holding p (all features disabled when nil).
func NewStore(p *Policy) *Store {
	ret := &Store{}
	ret.Set(p)
	return ret
}

// Policy returns a copy of the current policy.
func (s *Store) Policy() *Policy {
	p := s.current.Load()
	if p == nil {
		return &Policy{}
	}
	c := *p
	return &c
}

// Set replaces the current policy.
func (s *Store) Set(p *Policy) {
	if p == nil {
		p = &Policy{}
	}
	c := *p
	s.current.Store(&c)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx. A policy in the context overrides the
// provider for decisions made with that context.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy embedded in ctx, if any.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}

// Resolve returns the policy from ctx, falling back to provider.
func Resolve(ctx context.Context, provider Provider) *Policy {
	if p := FromContext(ctx); p != nil {
		return p
	}
	if provider == nil {
		return &Policy{}
	}
	return provider.Policy()
}
