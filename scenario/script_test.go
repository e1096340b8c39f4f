package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/service/event"
	fsqueue "github.com/viant/pocketguard/service/messaging/fs"
)

func TestRun(t *testing.T) {
	t.Setenv("POCKETGUARD_TEST_NUMBER", "5550100")

	type testCase struct {
		name   string
		URL    string
		events []string
		dialed []string
		locks  int
	}

	tests := []testCase{
		{name: "pocket call", URL: "testdata/pocket_call.yaml", dialed: []string{"5550100"}},
		{name: "heuristic", URL: "testdata/heuristic.yaml"},
		{name: "anti pocket", URL: "testdata/anti_pocket.yaml", locks: 1},
	}

	fs := afs.New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			location, err := filepath.Abs(tc.URL)
			require.NoError(t, err)
			script, err := Load(ctx, fs, location)
			require.NoError(t, err)

			report, err := Run(ctx, script)
			require.NoError(t, err)
			assert.Empty(t, report.Failures())
			assert.True(t, report.Passed())
			assert.EqualValues(t, tc.locks, report.Locks)
			if tc.dialed == nil {
				assert.Empty(t, report.Dialed)
			} else {
				assert.EqualValues(t, tc.dialed, report.Dialed)
			}
			assert.NotEmpty(t, report.Events)
		})
	}
}

func TestRun_FailedExpectation(t *testing.T) {
	script, err := Decode([]byte(`
config:
  policy:
    secureCalls: true
steps:
  - call: {trigger: screening, number: "112"}
    expect: {decision: intercept}
`))
	require.NoError(t, err)
	report, err := Run(context.Background(), script)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Failures(), 1)
	assert.Contains(t, report.Failures()[0], "decision")
	assert.EqualValues(t, model.DecisionAllow, report.Steps[0].Decision)
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name   string
		data   string
		hasErr bool
	}

	tests := []testCase{
		{name: "defaults kept", data: "steps:\n  - advance: 1s\n"},
		{name: "unknown trigger", data: "steps:\n  - call: {trigger: fax}\n", hasErr: true},
		{name: "invalid config", data: "config:\n  slider:\n    completionThreshold: 3\n", hasErr: true},
		{name: "malformed", data: "steps: {", hasErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script, err := Decode([]byte(tc.data))
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, 0.96, script.Config.Slider.CompletionThreshold)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("POCKETGUARD_A", "1")
	type testCase struct {
		input    string
		expected string
	}

	tests := []testCase{
		{input: "plain", expected: "plain"},
		{input: "n=${env.POCKETGUARD_A}", expected: "n=1"},
		{input: "${env.POCKETGUARD_UNSET}-x", expected: "-x"},
		{input: "${env.bad key}", expected: "${env.bad key}"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, string(expandEnv([]byte(tc.input))))
		})
	}
}

func TestRun_Journal(t *testing.T) {
	ctx := context.Background()
	journal, err := fsqueue.NewQueue[event.Event[any]](afs.New(), fsqueue.Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	script, err := Decode([]byte(`
config:
  policy:
    secureCalls: true
steps:
  - call: {trigger: redirection, number: "5551234"}
  - cancel: true
    expect: {pending: false}
`))
	require.NoError(t, err)

	report, err := Run(ctx, script, WithJournal(journal))
	require.NoError(t, err)
	assert.True(t, report.Passed())
	count, err := journal.Pending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(report.Events), count)

	message, err := journal.Consume(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, event.KindCallDecided, message.T().Context.Kind)
}
