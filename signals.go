package ripple

import "github.com/zoobzio/capitan"

// Tracing signals, emitted by observables wrapped with Trace.
var (
	// TraceComputed is emitted when a traced observable's value is read.
	TraceComputed = capitan.NewSignal(
		"ripple.trace.computed",
		"Traced value computed",
	)

	// TraceChanged is emitted when a traced observable notifies a change.
	TraceChanged = capitan.NewSignal(
		"ripple.trace.changed",
		"Traced value changed",
	)

	// TraceWatcherAdded is emitted when a watcher subscribes to a traced observable.
	TraceWatcherAdded = capitan.NewSignal(
		"ripple.trace.watcher.added",
		"Watcher added to traced value",
	)

	// TraceWatcherRemoved is emitted when a watcher of a traced observable is released.
	TraceWatcherRemoved = capitan.NewSignal(
		"ripple.trace.watcher.removed",
		"Watcher removed from traced value",
	)
)

// Rate controller signals.
var (
	// ControllerStateChanged is emitted when a debounce or throttle transitions between states.
	ControllerStateChanged = capitan.NewSignal(
		"ripple.controller.state.changed",
		"Rate controller state transition",
	)

	// ControllerReleased is emitted when a rate controller is released.
	ControllerReleased = capitan.NewSignal(
		"ripple.controller.released",
		"Rate controller released",
	)
)

// Async bridge signals.
var (
	// FutureResolved is emitted when a future receives its value.
	FutureResolved = capitan.NewSignal(
		"ripple.future.resolved",
		"Future resolved",
	)

	// LoopStarted is emitted when a mailbox loop begins serving requests.
	LoopStarted = capitan.NewSignal(
		"ripple.loop.started",
		"Mailbox loop started",
	)

	// LoopStopped is emitted when a mailbox loop stops.
	LoopStopped = capitan.NewSignal(
		"ripple.loop.stopped",
		"Mailbox loop stopped",
	)
)

// Source and effect signals.
var (
	// SourceDecodeFailed is emitted when a watcher payload cannot be decoded.
	SourceDecodeFailed = capitan.NewSignal(
		"ripple.source.decode.failed",
		"Source payload decode failed",
	)

	// SourceStopped is emitted when a source stops feeding its binding.
	SourceStopped = capitan.NewSignal(
		"ripple.source.stopped",
		"Source stopped",
	)

	// EffectSucceeded is emitted when an effect pipeline completes.
	EffectSucceeded = capitan.NewSignal(
		"ripple.effect.succeeded",
		"Effect completed",
	)

	// EffectFailed is emitted when an effect pipeline fails.
	EffectFailed = capitan.NewSignal(
		"ripple.effect.failed",
		"Effect failed",
	)
)
