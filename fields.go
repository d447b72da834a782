package ripple

import "github.com/zoobzio/capitan"

// Field keys for ripple events.
var (
	// KeyName is the name given to the traced value or operator.
	KeyName = capitan.NewStringKey("name")

	// KeyTraceID identifies one traced observable across its events.
	KeyTraceID = capitan.NewStringKey("trace_id")

	// KeyValue is the formatted value carried by a change.
	KeyValue = capitan.NewStringKey("value")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDuration is the time an operation took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyContentType is the codec content type of a source.
	KeyContentType = capitan.NewStringKey("content_type")

	// KeyWatchers is the number of watchers registered after a change.
	KeyWatchers = capitan.NewIntKey("watchers")
)
