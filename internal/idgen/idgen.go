package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string.
var NewFunc = func() string { return uuid.New().String() }

// New returns a session identifier.
func New() string { return NewFunc() }

// Sequence replaces NewFunc with a deterministic generator producing
// prefix-1, prefix-2, ... and returns a function restoring the previous one.
func Sequence(prefix string) (restore func()) {
	prev := NewFunc
	var n atomic.Int64
	NewFunc = func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
	return func() { NewFunc = prev }
}
