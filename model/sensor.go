package model

// SensorKind is the kind of a raw sensor sample.
type SensorKind string

const (
	SensorProximity SensorKind = "proximity"
	SensorLight     SensorKind = "light"
)

// Sample is one reading delivered by a sensor channel. MaxRange is the
// sensor's reported maximum range and is only meaningful for proximity.
type Sample struct {
	Kind     SensorKind `json:"kind" yaml:"kind"`
	Value    float64    `json:"value" yaml:"value"`
	MaxRange float64    `json:"maxRange,omitempty" yaml:"maxRange,omitempty"`
}
