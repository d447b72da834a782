package ripple

import "errors"

var (
	// ErrDisconnected is returned by a mailbox whose loop has stopped.
	ErrDisconnected = errors.New("mailbox disconnected")

	// ErrStreamClosed is returned by Stream.Next after Close.
	ErrStreamClosed = errors.New("stream closed")

	// ErrAlreadyResolved is returned by TryResolve on a resolved future.
	// Resolve panics with it.
	ErrAlreadyResolved = errors.New("future already resolved")

	// ErrLoopStopped is returned by Loop.Run when the loop was already stopped.
	ErrLoopStopped = errors.New("loop stopped")

	// ErrLoopRunning is returned by Loop.Run when another Run is active.
	ErrLoopRunning = errors.New("loop already running")
)
