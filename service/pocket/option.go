package pocket

import (
	"log/slog"

	"github.com/viant/pocketguard/model"
	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/service/device"
	"github.com/viant/pocketguard/service/event"
)

// Option configures a Detector.
type Option func(d *Detector)

// WithLightThreshold sets the lux value below which light counts as low.
func WithLightThreshold(lux float64) Option {
	return func(d *Detector) {
		if lux > 0 {
			d.lightThreshold = lux
		}
	}
}

// WithUnavailable marks sensor kinds the device does not have. Their
// sub-signal stays false, so the detector never reports "in pocket" from a
// single sensor.
func WithUnavailable(kinds ...model.SensorKind) Option {
	return func(d *Detector) {
		for _, kind := range kinds {
			switch kind {
			case model.SensorProximity:
				d.proximityAvailable = false
			case model.SensorLight:
				d.lightAvailable = false
			}
		}
	}
}

// WithPolicy sets the feature flag provider.
func WithPolicy(provider policy.Provider) Option {
	return func(d *Detector) { d.policy = provider }
}

// WithLocker sets the device lock capability.
func WithLocker(locker device.Locker) Option {
	return func(d *Detector) { d.locker = locker }
}

// WithActivator sets the confirmation surface used for unlock sessions.
func WithActivator(activator Activator) Option {
	return func(d *Detector) { d.activator = activator }
}

// WithEventService sets the event service.
func WithEventService(events *event.Service) Option {
	return func(d *Detector) { d.events = events }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}
