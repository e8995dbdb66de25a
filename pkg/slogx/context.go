package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithInvocation attaches the Lambda request ID and trigger source to the
// context logger for the duration of one invocation.
func WithInvocation(ctx context.Context, logger *slog.Logger, requestID, triggerSource string) context.Context {
	return WithContext(ctx, logger.With(
		"request_id", requestID,
		"trigger_source", triggerSource,
	))
}
