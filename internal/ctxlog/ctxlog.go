// Package ctxlog carries a slog.Logger through context.Context so library
// code can log without a logger parameter on every call.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported so no other package can collide with this context key.
type key struct{}

var loggerKey = key{}

// WithLogger embeds the logger in a child context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, falling back to the
// process default when none was set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
