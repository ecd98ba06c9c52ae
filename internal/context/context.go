package context

import (
	"context"
)

type guardKeyType int

const (
	requestIDKey guardKeyType = iota
	operationNameKey
)

// WithRequestID is used to create a new context with a request ID added to it
// so it can be later retrieved using `RequestID`.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID is used to retrieve the request ID from the context.
func RequestID(ctx context.Context) (id string, found bool) {
	if ctx == nil {
		return
	}

	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v, true
	}

	return
}

// WithOperationName stores the operation name requested by the client.
func WithOperationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationNameKey, name)
}

// OperationName is used to retrieve the operation name from the context.
func OperationName(ctx context.Context) (name string, found bool) {
	if ctx == nil {
		return
	}

	if v, ok := ctx.Value(operationNameKey).(string); ok {
		return v, true
	}

	return
}
