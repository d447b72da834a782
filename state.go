package ripple

import (
	"context"

	"github.com/zoobzio/capitan"
)

// State is the lifecycle state of a rate controller.
type State int32

const (
	// StateIdle indicates nothing is pending and no timer is armed.
	StateIdle State = iota

	// StatePending indicates a debounce timer is armed and holds the latest
	// value.
	StatePending

	// StateCooldown indicates a throttle window is open. A value received
	// during the window is held for the trailing edge.
	StateCooldown

	// StateReleased indicates the controller was released. It never fires
	// again.
	StateReleased
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCooldown:
		return "cooldown"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// transition reports a controller state change to metrics and signals.
func (c config) transition(from, to State) {
	if from == to {
		return
	}
	c.metrics.OnStateChange(c.name, from, to)
	capitan.Emit(context.Background(), ControllerStateChanged,
		KeyName.Field(c.name),
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
}
