// Package device declares the device capabilities the core drives: locking
// the screen and placing a call. Hosts supply the implementations.
package device

import (
	"context"
	"errors"
)

// ErrPermissionDenied reports that the host lacks the privilege to perform
// the action. Callers treat it as a silent, recoverable failure.
var ErrPermissionDenied = errors.New("device: permission denied")

// Locker locks the device. Lock reports whether the lock was performed; it
// returns false when the required accessibility privilege is not granted.
type Locker interface {
	Lock() bool
}

// LockFunc adapts a function to Locker.
type LockFunc func() bool

// Lock calls f.
func (f LockFunc) Lock() bool { return f() }

// Dialer places an outgoing call. Dial is fire-and-forget: a nil error means
// the request was handed to the platform, not that the call connected.
type Dialer interface {
	Dial(ctx context.Context, number string) error
}

// DialFunc adapts a function to Dialer.
type DialFunc func(ctx context.Context, number string) error

// Dial calls f.
func (f DialFunc) Dial(ctx context.Context, number string) error { return f(ctx, number) }

// Nop is a Locker and Dialer without privileges: locking never happens and
// dialing fails with ErrPermissionDenied.
type Nop struct{}

func (Nop) Lock() bool { return false }

func (Nop) Dial(context.Context, string) error { return ErrPermissionDenied }
