package pocketguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/intercept"
	"github.com/viant/pocketguard/service/messaging/memory"
	"github.com/viant/pocketguard/service/pocket"
	"github.com/viant/pocketguard/service/slider"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POCKETGUARD_"

// Config is a serialisable representation of the guard configuration. It can
// be populated from YAML, JSON or environment variables.
type Config struct {
	Policy       policy.Config      `json:"policy" yaml:"policy" envPrefix:"POLICY_"`
	Interception InterceptionConfig `json:"interception" yaml:"interception" envPrefix:"INTERCEPTION_"`
	Pocket       PocketConfig       `json:"pocket" yaml:"pocket" envPrefix:"POCKET_"`
	Slider       SliderConfig       `json:"slider" yaml:"slider" envPrefix:"SLIDER_"`
	Events       EventsConfig       `json:"events" yaml:"events" envPrefix:"EVENTS_"`
}

type InterceptionConfig struct {
	Cooldown  time.Duration `json:"cooldown" yaml:"cooldown" env:"COOLDOWN"`
	BypassTTL time.Duration `json:"bypassTTL" yaml:"bypassTTL" env:"BYPASS_TTL"`
	// EmergencyNumbers extends the built-in emergency numbers, which can't be
	// removed.
	EmergencyNumbers []string `json:"emergencyNumbers,omitempty" yaml:"emergencyNumbers,omitempty" env:"EMERGENCY_NUMBERS"`
}

type PocketConfig struct {
	LightThresholdLux  float64 `json:"lightThresholdLux" yaml:"lightThresholdLux" env:"LIGHT_THRESHOLD_LUX"`
	ProximityAvailable bool    `json:"proximityAvailable" yaml:"proximityAvailable" env:"PROXIMITY_AVAILABLE"`
	LightAvailable     bool    `json:"lightAvailable" yaml:"lightAvailable" env:"LIGHT_AVAILABLE"`
}

type SliderConfig struct {
	CompletionThreshold float64       `json:"completionThreshold" yaml:"completionThreshold" env:"COMPLETION_THRESHOLD"`
	ActivationRegion    float64       `json:"activationRegion" yaml:"activationRegion" env:"ACTIVATION_REGION"`
	AbandonGrace        time.Duration `json:"abandonGrace" yaml:"abandonGrace" env:"ABANDON_GRACE"`
}

type EventsConfig struct {
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer" env:"QUEUE_BUFFER"`
}

// DefaultConfig returns a Config populated with the package defaults. Every
// feature flag is off.
func DefaultConfig() *Config {
	return &Config{
		Interception: InterceptionConfig{
			Cooldown:  intercept.DefaultCooldown,
			BypassTTL: intercept.DefaultBypassTTL,
		},
		Pocket: PocketConfig{
			LightThresholdLux:  pocket.DefaultLightThresholdLux,
			ProximityAvailable: true,
			LightAvailable:     true,
		},
		Slider: SliderConfig{
			CompletionThreshold: slider.DefaultCompletionThreshold,
			ActivationRegion:    slider.DefaultActivationRegion,
			AbandonGrace:        slider.DefaultAbandonGrace,
		},
		Events: EventsConfig{QueueBuffer: memory.DefaultConfig().QueueBuffer},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Interception.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("interception.cooldown must be >= 0"))
	}
	if c.Interception.BypassTTL < 0 {
		errs = append(errs, fmt.Errorf("interception.bypassTTL must be >= 0"))
	}
	if c.Pocket.LightThresholdLux <= 0 {
		errs = append(errs, fmt.Errorf("pocket.lightThresholdLux must be > 0"))
	}
	if c.Slider.CompletionThreshold <= 0 || c.Slider.CompletionThreshold > 1 {
		errs = append(errs, fmt.Errorf("slider.completionThreshold must be in (0, 1]"))
	}
	if c.Slider.ActivationRegion <= 0 || c.Slider.ActivationRegion > 1 {
		errs = append(errs, fmt.Errorf("slider.activationRegion must be in (0, 1]"))
	}
	if c.Slider.AbandonGrace < 0 {
		errs = append(errs, fmt.Errorf("slider.abandonGrace must be >= 0"))
	}
	if c.Events.QueueBuffer <= 0 {
		errs = append(errs, fmt.Errorf("events.queueBuffer must be > 0"))
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides c with POCKETGUARD_* environment variables, for example
// POCKETGUARD_POLICY_SECURE_CALLS or POCKETGUARD_INTERCEPTION_COOLDOWN.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads YAML configuration from URL on top of DefaultConfig and
// applies environment overrides. An empty URL yields defaults plus
// environment.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	cfg := DefaultConfig()
	if URL != "" {
		fs := afs.New()
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
