package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

// TraceHeader - заголовок, в котором trace id ходит между фронтом, сервисом и CLI
const TraceHeader = "X-Trace-ID"

type traceIDKey struct{}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext - "" если trace id не задан
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// EnsureTraceID оставляет уже заданный trace id, иначе кладет новый uuid
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return ContextWithTraceID(ctx, traceID), traceID
}
