package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog with the module-tagging convention used throughout the
// forwarder: every call site passes the object logging the message (its
// String() becomes the "module" attribute) ahead of the free-form kv pairs.
type Logger struct {
	handler slog.Handler
	level   *slog.LevelVar
}

// Log is the package-level logger used by every subsystem.
var Log = New(LevelInfo)

// New constructs a Logger writing text-formatted records to stderr at the
// given level.
func New(level Level) *Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.Level(level))
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	return &Logger{handler: handler, level: lvl}
}

// SetLevel adjusts the minimum level emitted by the logger.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(slog.Level(level))
}

func moduleAttr(module any) slog.Attr {
	if s, ok := module.(fmt.Stringer); ok {
		return slog.String("module", s.String())
	}
	return slog.String("module", fmt.Sprintf("%v", module))
}

func (l *Logger) log(ctx context.Context, level Level, module any, msg string, kv ...any) {
	sl := slog.Level(level)
	if !l.handler.Enabled(ctx, sl) {
		return
	}
	r := slog.NewRecord(time.Now(), sl, msg, 0)
	r.AddAttrs(moduleAttr(module))
	r.Add(kv...)
	_ = l.handler.Handle(ctx, r)
}

// Trace logs a trace-level message.
func (l *Logger) Trace(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelTrace, module, msg, kv...)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelDebug, module, msg, kv...)
}

// Info logs an info-level message.
func (l *Logger) Info(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelInfo, module, msg, kv...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelWarn, module, msg, kv...)
}

// Error logs an error-level message.
func (l *Logger) Error(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelError, module, msg, kv...)
}

// Fatal logs a fatal-level message and terminates the process.
func (l *Logger) Fatal(module any, msg string, kv ...any) {
	l.log(context.Background(), LevelFatal, module, msg, kv...)
	os.Exit(1)
}
