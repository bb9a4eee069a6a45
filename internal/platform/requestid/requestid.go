package requestid

import (
	"context"
	"log/slog"
)

// Header is the HTTP header that carries the request ID.
const Header = "X-Request-ID"

type ctxKey struct{}

// NewContext returns a context that carries the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger returns l annotated with the request ID from ctx, if any.
func Logger(ctx context.Context, l *slog.Logger) *slog.Logger {
	if id := FromContext(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
