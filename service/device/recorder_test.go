package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	type testCase struct {
		name    string
		options []RecorderOption
		locked  bool
		dialErr error
	}

	tests := []testCase{
		{name: "privileged", locked: true},
		{name: "no privilege", options: []RecorderOption{WithLockPrivilege(false)}},
		{name: "dial denied", options: []RecorderOption{WithDialError(ErrPermissionDenied)}, locked: true, dialErr: ErrPermissionDenied},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := NewRecorder(tc.options...)
			assert.EqualValues(t, tc.locked, recorder.Lock())
			err := recorder.Dial(context.Background(), "5551234")
			assert.True(t, errors.Is(err, tc.dialErr))
			if tc.dialErr == nil {
				assert.EqualValues(t, []string{"5551234"}, recorder.Dialed())
			} else {
				assert.Empty(t, recorder.Dialed())
			}
		})
	}
}

func TestNop(t *testing.T) {
	var nop Nop
	assert.False(t, nop.Lock())
	assert.ErrorIs(t, nop.Dial(context.Background(), "5551234"), ErrPermissionDenied)
	assert.True(t, LockFunc(func() bool { return true }).Lock())
	assert.NoError(t, DialFunc(func(context.Context, string) error { return nil }).Dial(context.Background(), ""))
}
