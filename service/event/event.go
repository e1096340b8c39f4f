package event

import (
	"time"

	"github.com/viant/pocketguard/model"
)

// Kind names an observable occurrence.
type Kind string

const (
	KindPocketEntered    Kind = "pocket.entered"
	KindPocketLeft       Kind = "pocket.left"
	KindCallDecided      Kind = "call.decided"
	KindCallPlaced       Kind = "call.placed"
	KindSessionActivated Kind = "session.activated"
	KindSessionResolved  Kind = "session.resolved"
	KindDeviceLocked     Kind = "device.locked"
)

// Context identifies what an event relates to.
type Context struct {
	Kind      Kind          `json:"kind"`
	Trigger   model.Trigger `json:"trigger,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
	Mode      model.Mode    `json:"mode,omitempty"`
}

// Event is the envelope published for every occurrence.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event envelope.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// Pocket is the payload of pocket transitions.
type Pocket struct {
	InPocket      bool `json:"inPocket"`
	ProximityNear bool `json:"proximityNear"`
	LightLow      bool `json:"lightLow"`
}

// Call is the payload of call decisions and placements. Numbers are never
// carried in events.
type Call struct {
	Decision model.Decision `json:"decision,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Session is the payload of confirmation session events.
type Session struct {
	Outcome        model.Outcome `json:"outcome,omitempty"`
	RedialRequired bool          `json:"redialRequired,omitempty"`
}

// Device is the payload of device actions.
type Device struct {
	Performed bool `json:"performed"`
}
