// Package zaptrace writes ripple signals to a zap logger.
package zaptrace

import (
	"context"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zoobzio/ripple"
)

// Attach hooks every ripple signal into logger. Trace events log at debug,
// lifecycle events at info and failures at warn. Hooks are process-wide, so
// call Attach once.
func Attach(logger *zap.Logger) {
	logger = logger.Named("ripple")

	capitan.Hook(ripple.TraceComputed, handler(logger, zapcore.DebugLevel, "value computed"))
	capitan.Hook(ripple.TraceChanged, handler(logger, zapcore.DebugLevel, "value changed"))
	capitan.Hook(ripple.TraceWatcherAdded, handler(logger, zapcore.DebugLevel, "watcher added"))
	capitan.Hook(ripple.TraceWatcherRemoved, handler(logger, zapcore.DebugLevel, "watcher removed"))

	capitan.Hook(ripple.ControllerStateChanged, handler(logger, zapcore.DebugLevel, "controller state changed"))
	capitan.Hook(ripple.ControllerReleased, handler(logger, zapcore.InfoLevel, "controller released"))
	capitan.Hook(ripple.FutureResolved, handler(logger, zapcore.DebugLevel, "future resolved"))
	capitan.Hook(ripple.LoopStarted, handler(logger, zapcore.InfoLevel, "loop started"))
	capitan.Hook(ripple.LoopStopped, handler(logger, zapcore.InfoLevel, "loop stopped"))
	capitan.Hook(ripple.SourceStopped, handler(logger, zapcore.InfoLevel, "source stopped"))
	capitan.Hook(ripple.EffectSucceeded, handler(logger, zapcore.DebugLevel, "effect succeeded"))

	capitan.Hook(ripple.SourceDecodeFailed, handler(logger, zapcore.WarnLevel, "source decode failed"))
	capitan.Hook(ripple.EffectFailed, handler(logger, zapcore.WarnLevel, "effect failed"))
}

func handler(logger *zap.Logger, level zapcore.Level, msg string) func(context.Context, *capitan.Event) {
	return func(_ context.Context, e *capitan.Event) {
		if ce := logger.Check(level, msg); ce != nil {
			ce.Write(fields(e)...)
		}
	}
}

// fields converts the ripple keys present on e into zap fields.
func fields(e *capitan.Event) []zap.Field {
	var out []zap.Field
	for _, k := range []struct {
		name string
		get  func(*capitan.Event) (string, bool)
	}{
		{"name", ripple.KeyName.From},
		{"trace_id", ripple.KeyTraceID.From},
		{"value", ripple.KeyValue.From},
		{"old_state", ripple.KeyOldState.From},
		{"new_state", ripple.KeyNewState.From},
		{"content_type", ripple.KeyContentType.From},
		{"error", ripple.KeyError.From},
	} {
		if v, ok := k.get(e); ok {
			out = append(out, zap.String(k.name, v))
		}
	}
	if d, ok := ripple.KeyDuration.From(e); ok {
		out = append(out, zap.Duration("duration", d))
	}
	if n, ok := ripple.KeyWatchers.From(e); ok {
		out = append(out, zap.Int("watchers", n))
	}
	return out
}
