package diag

import (
	"context"
	"log/slog"
)

// Logger wraps an optional *slog.Logger. A nil L disables logging.
type Logger struct {
	L *slog.Logger
}

// NewLogger tags l with a component attribute. A nil l stays disabled.
func NewLogger(l *slog.Logger, component string) Logger {
	if l == nil {
		return Logger{}
	}
	return Logger{L: l.With(slog.String("component", component))}
}

// Log emits msg at level when logging is enabled.
func (g Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if g.L == nil {
		return
	}
	g.L.LogAttrs(context.Background(), level, msg, attrs...)
}

// Enabled reports whether level would be emitted.
func (g Logger) Enabled(level slog.Level) bool {
	return g.L != nil && g.L.Enabled(context.Background(), level)
}
