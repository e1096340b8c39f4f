package pocketguard_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/pocketguard"
	"github.com/viant/pocketguard/model"
)

func TestConfig_Validate(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(c *pocketguard.Config)
		hasErr bool
	}

	tests := []testCase{
		{name: "defaults", mutate: func(c *pocketguard.Config) {}},
		{name: "negative cooldown", mutate: func(c *pocketguard.Config) { c.Interception.Cooldown = -time.Second }, hasErr: true},
		{name: "zero light threshold", mutate: func(c *pocketguard.Config) { c.Pocket.LightThresholdLux = 0 }, hasErr: true},
		{name: "threshold above one", mutate: func(c *pocketguard.Config) { c.Slider.CompletionThreshold = 1.5 }, hasErr: true},
		{name: "empty region", mutate: func(c *pocketguard.Config) { c.Slider.ActivationRegion = 0 }, hasErr: true},
		{name: "no queue", mutate: func(c *pocketguard.Config) { c.Events.QueueBuffer = 0 }, hasErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := pocketguard.DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	location := filepath.Join(dir, "pocketguard.yaml")
	require.NoError(t, os.WriteFile(location, []byte(`
policy:
  secureCalls: true
interception:
  cooldown: 5s
slider:
  abandonGrace: 1s
`), 0o644))
	t.Setenv("POCKETGUARD_POLICY_ONLY_WHEN_IN_POCKET", "true")
	t.Setenv("POCKETGUARD_POCKET_LIGHT_THRESHOLD_LUX", "4.5")

	cfg, err := pocketguard.LoadConfig(context.Background(), location)
	require.NoError(t, err)
	assert.True(t, cfg.Policy.SecureCalls)
	assert.True(t, cfg.Policy.OnlyWhenInPocket)
	assert.False(t, cfg.Policy.AntiPocket)
	assert.EqualValues(t, 5*time.Second, cfg.Interception.Cooldown)
	assert.EqualValues(t, time.Second, cfg.Slider.AbandonGrace)
	assert.EqualValues(t, 4.5, cfg.Pocket.LightThresholdLux)
	assert.EqualValues(t, pocketguard.DefaultConfig().Slider.CompletionThreshold, cfg.Slider.CompletionThreshold)
	assert.Empty(t, cfg.Interception.EmergencyNumbers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("POCKETGUARD_SLIDER_COMPLETION_THRESHOLD", "2")
	_, err := pocketguard.LoadConfig(context.Background(), "")
	assert.Error(t, err)
}

func TestLoadConfig_EmergencyNumbersExtendDefaults(t *testing.T) {
	t.Setenv("POCKETGUARD_POLICY_SECURE_CALLS", "true")
	t.Setenv("POCKETGUARD_INTERCEPTION_EMERGENCY_NUMBERS", "311")
	ctx := context.Background()

	cfg, err := pocketguard.LoadConfig(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, []string{"311"}, cfg.Interception.EmergencyNumbers)
	srv, err := pocketguard.New(pocketguard.WithConfig(cfg))
	require.NoError(t, err)
	defer srv.Close()

	type testCase struct {
		number   string
		decision model.Decision
	}
	tests := []testCase{
		{number: "911", decision: model.DecisionAllow},
		{number: "311", decision: model.DecisionAllow},
		{number: "5551234", decision: model.DecisionIntercept},
	}
	for _, tc := range tests {
		t.Run(tc.number, func(t *testing.T) {
			verdict, err := srv.Evaluate(ctx, model.Call{Number: tc.number, Trigger: model.TriggerRedirection})
			require.NoError(t, err)
			assert.EqualValues(t, tc.decision, verdict.Decision)
		})
	}
}
