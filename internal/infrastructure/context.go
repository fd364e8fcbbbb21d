package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// GenerateRequestID creates a new unique request ID using UUID v4
func GenerateRequestID() string {
	return uuid.New().String()
}

// EnsureRequestID ensures the context has a request ID, generating one if needed
func EnsureRequestID(ctx context.Context) context.Context {
	if GetRequestID(ctx) == "" {
		return WithRequestID(ctx, GenerateRequestID())
	}
	return ctx
}
