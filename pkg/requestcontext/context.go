// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them; services and handlers read them
// without importing net/http.
package requestcontext

import (
	"context"
	"time"

	"ongfinder/pkg/domain"
)

type (
	userIDKey      struct{}
	userKindKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported keys for tests that need raw context.WithValue.
var (
	ContextKeyUserID      = userIDKey{}
	ContextKeyUserKind    = userKindKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// UserID returns the authenticated account id, zero when unauthenticated.
func UserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(ContextKeyUserID).(int64); ok {
		return id
	}
	return 0
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, id)
}

// UserKind returns the authenticated account kind, empty when unauthenticated.
func UserKind(ctx context.Context) domain.UserKind {
	if kind, ok := ctx.Value(ContextKeyUserKind).(domain.UserKind); ok {
		return kind
	}
	return ""
}

func WithUserKind(ctx context.Context, kind domain.UserKind) context.Context {
	return context.WithValue(ctx, ContextKeyUserKind, kind)
}

// RequestID returns the correlation id assigned by middleware.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// Now returns the request-scoped time, falling back to time.Now for workers
// and tests that skip the middleware chain.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock for a context; used by tests that assert on ages and
// timestamps.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
