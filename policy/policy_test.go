package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_NeedsPocketDetection(t *testing.T) {
	type testCase struct {
		name     string
		policy   *Policy
		expected bool
	}

	tests := []testCase{
		{name: "nil", policy: nil, expected: false},
		{name: "secure calls only", policy: &Policy{SecureCalls: true}, expected: false},
		{name: "only when in pocket", policy: &Policy{SecureCalls: true, OnlyWhenInPocket: true}, expected: true},
		{name: "anti pocket", policy: &Policy{AntiPocket: true}, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.policy.NeedsPocketDetection())
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	p := &Policy{SecureCalls: true, LockWhenInPocket: true}
	assert.EqualValues(t, p, FromConfig(ToConfig(p)))
	assert.Nil(t, ToConfig(nil))
	assert.EqualValues(t, &Policy{}, FromConfig(nil))
}

func TestStore(t *testing.T) {
	store := NewStore(&Policy{SecureCalls: true})
	got := store.Policy()
	got.SecureCalls = false
	assert.True(t, store.Policy().SecureCalls, "returned policy is a copy")

	store.Set(nil)
	assert.EqualValues(t, &Policy{}, store.Policy())
}

func TestResolve(t *testing.T) {
	provider := Static{SecureCalls: true}
	assert.True(t, Resolve(context.Background(), provider).SecureCalls)

	ctx := WithPolicy(context.Background(), &Policy{AntiPocket: true})
	resolved := Resolve(ctx, provider)
	assert.False(t, resolved.SecureCalls)
	assert.True(t, resolved.AntiPocket)

	assert.EqualValues(t, &Policy{}, Resolve(context.Background(), nil))
}
