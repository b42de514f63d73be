package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUpdateKey ctxKey = "updateID"

func UpdateIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextUpdateKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithUpdateID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextUpdateKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
