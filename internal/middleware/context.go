package middleware

import (
	"context"

	"go.uber.org/zap"
)

// context keys are unexported to avoid collisions
type ctxKey string

const ctxKeyLogger ctxKey = "logger"

var noopLogger = zap.NewNop()

// WithLogger stores the request-scoped logger in context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// Logger returns the request-scoped logger, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok && l != nil {
		return l
	}
	return noopLogger
}

// LoggerOr returns the request-scoped logger, or fallback when none was stored.
func LoggerOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok && l != nil && l != noopLogger {
		return l
	}
	if fallback == nil {
		return noopLogger
	}
	return fallback
}
